package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

// AlignMode selects how product rows are paired with template rows.
type AlignMode string

const (
	// AlignIdentifier pairs rows by shared sub-criterion id first and falls back
	// to position for rows without a match.
	AlignIdentifier AlignMode = "identifier"
	// AlignPositional pairs row i with template row i and truncates to the shorter sequence.
	AlignPositional AlignMode = "positional"
)

// ErrRowCountMismatch is returned in strict mode when a product sheet resolves
// a different number of rows than the template.
var ErrRowCountMismatch = errors.New("row count mismatch")

// maxRowSample caps the row numbers listed in a warning.
const maxRowSample = 10

// ParseAlignMode parses a mode name; the empty string selects AlignIdentifier.
func ParseAlignMode(s string) (AlignMode, error) {
	switch AlignMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AlignIdentifier:
		return AlignIdentifier, nil
	case AlignPositional:
		return AlignPositional, nil
	}
	return "", fmt.Errorf("invalid align mode: %s (must be identifier or positional)", s)
}

// Aligner produces score records of product sheets against the template rows.
// Template is read-only and may be shared by concurrent Align calls.
type Aligner struct {
	Template []models.RowRecord
	Layout   parser.Layout
	Mode     AlignMode
	Strict   bool
	Evidence parser.EvidenceParser
}

// SheetScores is the alignment result of one product sheet.
type SheetScores struct {
	Scores   []models.Score
	Warnings []models.Warning
	// Rows is the number of rows resolved on the product sheet.
	Rows int
}

type pairing struct {
	product  models.RowRecord
	template models.RowRecord
}

// Align resolves the rows of a product sheet and turns each paired row into a score record.
func (a *Aligner) Align(productID string, s parser.Sheet) (SheetScores, error) {
	res, err := a.Layout.Resolve(s)
	if err != nil {
		return SheetScores{}, err
	}
	if err := res.Columns.Require(parser.ColScore); err != nil {
		return SheetScores{}, err
	}

	pairs, warnings, err := a.pair(s.Title(), res.Records)
	if err != nil {
		return SheetScores{}, err
	}

	var link parser.LinkSheet
	evidCol, hasEvid := res.Columns.Get(parser.ColEvidence)
	if ls, ok := s.(parser.LinkSheet); ok && hasEvid {
		link = ls
	}

	out := SheetScores{Scores: make([]models.Score, 0, len(pairs)), Rows: len(res.Records)}
	var coerced []int
	for _, p := range pairs {
		row := p.product.Row
		score, ok := parser.CoerceScore(res.Columns.Value(s, row, parser.ColScore))
		if !ok {
			coerced = append(coerced, row)
		}

		var hyperlink string
		if link != nil {
			hyperlink = link.Link(row, evidCol)
		}

		out.Scores = append(out.Scores, models.Score{
			ProductID:      productID,
			SubcriterionID: p.template.SubcriterionID,
			Score:          score,
			AuditComment:   parser.NormText(res.Columns.Value(s, row, parser.ColComment)),
			EvidenzLinks: a.Evidence.Parse(
				res.Columns.Value(s, row, parser.ColEvidence),
				res.Columns.Value(s, row, parser.ColEvidenceType),
				hyperlink,
			),
		})
	}

	if len(coerced) > 0 {
		warnings = append(warnings, models.Warning{
			Kind:  models.WarnScoreCoerced,
			Sheet: s.Title(),
			Message: fmt.Sprintf("%d score cells outside {0,1,2} coerced to 0 (rows %s)",
				len(coerced), rowSample(coerced)),
		})
	}
	out.Warnings = warnings
	return out, nil
}

func (a *Aligner) pair(sheet string, product []models.RowRecord) ([]pairing, []models.Warning, error) {
	var warnings []models.Warning
	if len(product) != len(a.Template) {
		if a.Strict {
			return nil, nil, fmt.Errorf("%w: sheet %q has %d subcriteria, template has %d",
				ErrRowCountMismatch, sheet, len(product), len(a.Template))
		}
		warnings = append(warnings, models.Warning{
			Kind:    models.WarnRowCountMismatch,
			Sheet:   sheet,
			Message: fmt.Sprintf("sheet has %d subcriteria, template has %d", len(product), len(a.Template)),
		})
	}

	if a.Mode == AlignPositional {
		n := min(len(product), len(a.Template))
		pairs := make([]pairing, n)
		for i := 0; i < n; i++ {
			pairs[i] = pairing{product: product[i], template: a.Template[i]}
		}
		return pairs, warnings, nil
	}

	pairs, unmatched := a.pairByIdentifier(product)
	if len(unmatched) > 0 {
		warnings = append(warnings, models.Warning{
			Kind:  models.WarnUnmatchedRow,
			Sheet: sheet,
			Message: fmt.Sprintf("%d rows without a template counterpart were skipped (rows %s)",
				len(unmatched), rowSample(unmatched)),
		})
	}
	return pairs, warnings, nil
}

// pairByIdentifier first pairs rows whose resolved id exists in the template, then
// pairs the remaining rows with the unused template row at the same position.
// Each template row is used at most once. Pairs keep product row order.
func (a *Aligner) pairByIdentifier(product []models.RowRecord) ([]pairing, []int) {
	byID := make(map[string]int, len(a.Template))
	for i, t := range a.Template {
		if _, dup := byID[t.SubcriterionID]; !dup {
			byID[t.SubcriterionID] = i
		}
	}

	match := make([]int, len(product))
	used := make([]bool, len(a.Template))
	for i, p := range product {
		match[i] = -1
		if j, ok := byID[p.SubcriterionID]; ok && !used[j] {
			match[i] = j
			used[j] = true
		}
	}
	for i := range product {
		if match[i] >= 0 || i >= len(a.Template) || used[i] {
			continue
		}
		match[i] = i
		used[i] = true
	}

	var pairs []pairing
	var unmatched []int
	for i, p := range product {
		if match[i] < 0 {
			unmatched = append(unmatched, p.Row)
			continue
		}
		pairs = append(pairs, pairing{product: p, template: a.Template[match[i]]})
	}
	return pairs, unmatched
}

func rowSample(rows []int) string {
	sample := rows
	if len(sample) > maxRowSample {
		sample = sample[:maxRowSample]
	}
	parts := make([]string, len(sample))
	for i, r := range sample {
		parts[i] = strconv.Itoa(r)
	}
	s := strings.Join(parts, ", ")
	if len(rows) > maxRowSample {
		s += ", ..."
	}
	return s
}
