// Package metrics exposes export counters for batch runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics tracks what an export read and produced. Each instance owns its registry.
// The recording methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	SheetsProcessed *prometheus.CounterVec
	RowsResolved    *prometheus.CounterVec
	ScoresEmitted   prometheus.Counter
	Warnings        *prometheus.CounterVec
	ExportDuration  prometheus.Histogram
}

// New creates a Metrics instance on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		SheetsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kriterion_sheets_processed_total",
			Help: "Sheets processed, by kind (template, product)",
		}, []string{"kind"}),
		RowsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kriterion_rows_resolved_total",
			Help: "Sub-criterion rows resolved, by sheet kind",
		}, []string{"kind"}),
		ScoresEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "kriterion_scores_emitted_total",
			Help: "Score records produced",
		}),
		Warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kriterion_warnings_total",
			Help: "Recoverable data-quality warnings, by kind",
		}, []string{"kind"}),
		ExportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kriterion_export_duration_seconds",
			Help:    "Duration of a workbook export",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSheet records a processed sheet and its resolved rows.
func (m *Metrics) ObserveSheet(kind string, rows int) {
	if m == nil {
		return
	}
	m.SheetsProcessed.WithLabelValues(kind).Inc()
	m.RowsResolved.WithLabelValues(kind).Add(float64(rows))
}

// AddScores records emitted score records.
func (m *Metrics) AddScores(n int) {
	if m == nil {
		return
	}
	m.ScoresEmitted.Add(float64(n))
}

// IncrementWarning records one warning of the given kind.
func (m *Metrics) IncrementWarning(kind string) {
	if m == nil {
		return
	}
	m.Warnings.WithLabelValues(kind).Inc()
}

// ObserveExport records the duration of an export.
// Call with time.Now() at the start of the export.
func (m *Metrics) ObserveExport(start time.Time) {
	if m == nil {
		return
	}
	m.ExportDuration.Observe(time.Since(start).Seconds())
}

// Push sends all collectors to a Pushgateway under the given job, grouped by workbook.
func (m *Metrics) Push(url, job, workbook string) error {
	err := push.New(url, job).
		Gatherer(m.registry).
		Grouping("workbook", workbook).
		Push()
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
