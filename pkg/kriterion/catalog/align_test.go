package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/internal/fixture"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

func productGrid(title string, lines []fixture.Line) *parser.Grid {
	return fixture.Grid(fixture.Sheet{Title: title, Lines: lines})
}

func TestParseAlignMode(t *testing.T) {
	for in, want := range map[string]AlignMode{
		"":            AlignIdentifier,
		"identifier":  AlignIdentifier,
		" Positional": AlignPositional,
	} {
		got, err := ParseAlignMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAlignMode("fuzzy")
	assert.Error(t, err)
}

func TestAlignFullSheet(t *testing.T) {
	a := newAligner(t)
	res, err := a.Align("bitwarden", productGrid("Bitwarden", fixture.Scored(fixture.Standard(), "2", "1", "0")))
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.Equal(t, 3, res.Rows)
	require.Len(t, res.Scores, 3)
	assert.Equal(t, map[string]int{"s_d1_3_1_1": 2, "s_d1_3_1_2": 1, backupID: 0}, scoreMap(res.Scores))
	for _, s := range res.Scores {
		assert.Equal(t, "bitwarden", s.ProductID)
		assert.NotNil(t, s.EvidenzLinks)
	}
}

func TestAlignOneRowShort(t *testing.T) {
	lines := fixture.Scored(fixture.Standard(), "2", "1")
	lines = lines[:len(lines)-1] // drop the backup row

	a := newAligner(t)
	res, err := a.Align("p", productGrid("P", lines))
	require.NoError(t, err)

	require.Len(t, res.Scores, 2)
	assert.Equal(t, "s_d1_3_1_1", res.Scores[0].SubcriterionID)
	assert.Equal(t, "s_d1_3_1_2", res.Scores[1].SubcriterionID)
	assert.Equal(t, []models.WarningKind{models.WarnRowCountMismatch}, warningKinds(res.Warnings))
	assert.Equal(t, "P", res.Warnings[0].Sheet)
}

func TestAlignOneRowShortPositional(t *testing.T) {
	lines := fixture.Scored(fixture.Standard(), "2", "1")
	lines = lines[:len(lines)-1]

	a := newAligner(t)
	a.Mode = AlignPositional
	res, err := a.Align("p", productGrid("P", lines))
	require.NoError(t, err)

	require.Len(t, res.Scores, 2)
	assert.Equal(t, map[string]int{"s_d1_3_1_1": 2, "s_d1_3_1_2": 1}, scoreMap(res.Scores))
	assert.Equal(t, []models.WarningKind{models.WarnRowCountMismatch}, warningKinds(res.Warnings))
}

func TestAlignStrictMismatch(t *testing.T) {
	lines := fixture.Standard()
	a := newAligner(t)
	a.Strict = true

	_, err := a.Align("p", productGrid("P", lines[:len(lines)-1]))
	require.ErrorIs(t, err, ErrRowCountMismatch)
	assert.Contains(t, err.Error(), `"P"`)
}

func reordered() []fixture.Line {
	return []fixture.Line{
		{Domain: "Security & Compliance"},
		{Chapter: "3.1.2", Criterion: "3.1 Access Control", Subcriterion: "Session timeout", Score: "1"},
		{Chapter: "3.1.1", Subcriterion: "MFA enforced", Score: "2"},
		{Domain: "Produkt, Betrieb & Adoption"},
		{Criterion: "7.1 Betrieb", Subcriterion: "Backup-Konzept", Score: "0"},
	}
}

func TestAlignIdentifierSurvivesReordering(t *testing.T) {
	a := newAligner(t)
	res, err := a.Align("p", productGrid("P", reordered()))
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.Equal(t, map[string]int{"s_d1_3_1_1": 2, "s_d1_3_1_2": 1, backupID: 0}, scoreMap(res.Scores))
	// product row order is kept
	assert.Equal(t, "s_d1_3_1_2", res.Scores[0].SubcriterionID)
}

func TestAlignPositionalFollowsRowOrder(t *testing.T) {
	a := newAligner(t)
	a.Mode = AlignPositional
	res, err := a.Align("p", productGrid("P", reordered()))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"s_d1_3_1_1": 1, "s_d1_3_1_2": 2, backupID: 0}, scoreMap(res.Scores))
}

func TestAlignPositionalFallback(t *testing.T) {
	// the product renamed a chapter-less row, so its id differs from the template
	lines := fixture.Scored(fixture.Standard(), "2", "1", "2")
	lines[4].Subcriterion = "Backup-Konzept (neu)"

	a := newAligner(t)
	res, err := a.Align("p", productGrid("P", lines))
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.Equal(t, map[string]int{"s_d1_3_1_1": 2, "s_d1_3_1_2": 1, backupID: 2}, scoreMap(res.Scores))
}

func TestAlignUnmatchedRow(t *testing.T) {
	lines := fixture.Scored(fixture.Standard(), "2", "1", "0")
	lines = append(lines[:3:3], append([]fixture.Line{
		{Chapter: "3.1.9", Subcriterion: "Extra", Score: "2"},
	}, lines[3:]...)...)

	a := newAligner(t)
	res, err := a.Align("p", productGrid("P", lines))
	require.NoError(t, err)

	assert.Equal(t, 4, res.Rows)
	assert.Len(t, res.Scores, 3)
	assert.Equal(t, map[string]int{"s_d1_3_1_1": 2, "s_d1_3_1_2": 1, backupID: 0}, scoreMap(res.Scores))
	assert.Equal(t,
		[]models.WarningKind{models.WarnRowCountMismatch, models.WarnUnmatchedRow},
		warningKinds(res.Warnings))
	assert.Contains(t, res.Warnings[1].Message, "rows 6")
}

func TestAlignCoercesScores(t *testing.T) {
	a := newAligner(t)
	res, err := a.Align("p", productGrid("P", fixture.Scored(fixture.Standard(), "abc", "3.5", "")))
	require.NoError(t, err)

	for _, s := range res.Scores {
		assert.Equal(t, 0, s.Score, s.SubcriterionID)
	}
	require.Equal(t, []models.WarningKind{models.WarnScoreCoerced}, warningKinds(res.Warnings))
	assert.Contains(t, res.Warnings[0].Message, "2 score cells")
	assert.Contains(t, res.Warnings[0].Message, "rows 4, 5")
}

func TestAlignCommentAndEvidence(t *testing.T) {
	lines := fixture.Scored(fixture.Standard(), "2", "1", "0")
	lines[1].Comment = "  MFA   für alle\nKonten "
	lines[1].EvidenceType = "Whitepaper"
	lines[1].Evidence = "Security Whitepaper"
	lines[1].Link = "https://example.com/wp.pdf"
	lines[2].Evidence = "https://example.com/a; https://example.com/b"

	a := newAligner(t)
	res, err := a.Align("p", productGrid("P", lines))
	require.NoError(t, err)
	require.Len(t, res.Scores, 3)

	assert.Equal(t, "MFA für alle Konten", res.Scores[0].AuditComment)
	assert.Equal(t, []models.EvidenceLink{
		{Label: "Security Whitepaper", URL: "https://example.com/wp.pdf"},
	}, res.Scores[0].EvidenzLinks)
	assert.Equal(t, []models.EvidenceLink{
		{Label: "Quelle 1", URL: "https://example.com/a"},
		{Label: "Quelle 2", URL: "https://example.com/b"},
	}, res.Scores[1].EvidenzLinks)
	assert.Empty(t, res.Scores[2].EvidenzLinks)
}

func TestAlignRequiresScoreColumn(t *testing.T) {
	g := parser.NewGrid("P", [][]string{
		{"ID (Kapitel)", "Kriterium", "Unterkriterium"},
		{"Security & Compliance"},
		{"3.1.1", "3.1 Access Control", "MFA enforced"},
	})

	_, err := newAligner(t).Align("p", g)
	require.ErrorIs(t, err, parser.ErrColumnMissing)
}

func TestAlignHeaderMissing(t *testing.T) {
	g := parser.NewGrid("P", [][]string{{"nothing here"}})

	_, err := newAligner(t).Align("p", g)
	require.ErrorIs(t, err, parser.ErrHeaderNotFound)
}
