// Package kriterion exports criteria catalog workbooks into a criteria tree,
// a product list and a flat score table.
package kriterion

import (
	"go.uber.org/zap"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/catalog"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/config"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/metrics"
)

// DefaultConcurrency bounds parallel product-sheet alignment.
const DefaultConcurrency = 4

// Options configures export behavior.
type Options struct {
	// Config is the workbook layout. If nil, config.DefaultConfig() is used.
	Config *config.Config
	// Align selects how product rows are paired with template rows.
	Align catalog.AlignMode
	// Strict turns a row-count mismatch into a fatal error.
	Strict bool
	// Concurrency bounds parallel product-sheet alignment (<= 0 uses DefaultConcurrency).
	Concurrency int
	// IncludeLinks specifies whether to read cell hyperlinks for evidence URLs.
	// If nil, defaults to true.
	IncludeLinks *bool
	// Logger receives progress and warnings. If nil, logging is disabled.
	Logger *zap.Logger
	// Metrics records export counters. May be nil.
	Metrics *metrics.Metrics
}

// DefaultOptions returns default export options.
func DefaultOptions() Options {
	return Options{
		Align:       catalog.AlignIdentifier,
		Concurrency: DefaultConcurrency,
	}
}

// ShouldIncludeLinks returns whether to read cell hyperlinks.
func (o Options) ShouldIncludeLinks() bool {
	if o.IncludeLinks != nil {
		return *o.IncludeLinks
	}
	return true
}

func (o Options) config() *config.Config {
	if o.Config != nil {
		return o.Config
	}
	return config.DefaultConfig()
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return DefaultConcurrency
}
