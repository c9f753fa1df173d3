package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/config"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/internal/fixture"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

var backupID = parser.SubcriterionID("d3", "7.1", "Backup-Konzept", "")

func defaultLayout() parser.Layout {
	return config.DefaultConfig().Layout()
}

func templateRecords(t *testing.T, lines []fixture.Line) []models.RowRecord {
	t.Helper()
	res, err := defaultLayout().Resolve(fixture.Grid(fixture.Sheet{Title: "Vorlage", Lines: lines}))
	require.NoError(t, err)
	return res.Records
}

func newAligner(t *testing.T) *Aligner {
	t.Helper()
	return &Aligner{
		Template: templateRecords(t, fixture.Standard()),
		Layout:   defaultLayout(),
		Mode:     AlignIdentifier,
		Evidence: config.DefaultConfig().EvidenceParser(),
	}
}

func scoreMap(scores []models.Score) map[string]int {
	m := make(map[string]int, len(scores))
	for _, s := range scores {
		m[s.SubcriterionID] = s.Score
	}
	return m
}

func warningKinds(ws []models.Warning) []models.WarningKind {
	var kinds []models.WarningKind
	for _, w := range ws {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}
