package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHeaderNotFound indicates that no row in the scan window qualifies as header row.
	ErrHeaderNotFound = errors.New("header row not found")
	// ErrColumnMissing indicates that a required logical column has no matching header.
	ErrColumnMissing = errors.New("required column missing")
)

// Bounds limits the header scan window.
type Bounds struct {
	MaxRows int
	MaxCols int
}

// DefaultBounds returns the default scan window of 120 rows by 80 columns.
func DefaultBounds() Bounds {
	return Bounds{MaxRows: 120, MaxCols: 80}
}

// HeaderRules decide whether a row is the header row. A row qualifies when one of
// its cells contains both a key token and a chapter token (e.g. "ID (Kapitel)")
// and one of its cells contains a sub-criterion token.
type HeaderRules struct {
	KeyTokens          []string
	ChapterTokens      []string
	SubcriterionTokens []string
}

// HeaderCell is one non-empty literal cell of the header row.
type HeaderCell struct {
	Label string
	Col   int
}

// Header is a located header row.
type Header struct {
	// Row is the 1-based header row index.
	Row int
	// Cells are ordered by column; a repeated label keeps its first column.
	Cells []HeaderCell
}

// FindHeader scans rows top-down within bounds and returns the first qualifying header row.
func FindHeader(s Sheet, b Bounds, rules HeaderRules) (Header, error) {
	keys := normNeedles(rules.KeyTokens)
	chapters := normNeedles(rules.ChapterTokens)
	subs := normNeedles(rules.SubcriterionTokens)

	maxRows := b.MaxRows
	if n := s.MaxRow(); n < maxRows {
		maxRows = n
	}

	for r := 1; r <= maxRows; r++ {
		cells := headerCells(s, r, b.MaxCols)
		hasKeyChapter, hasSub := false, false
		for _, cell := range cells {
			h := NormHeader(cell.Label)
			if containsAny(h, keys) && containsAny(h, chapters) {
				hasKeyChapter = true
			}
			if containsAny(h, subs) {
				hasSub = true
			}
		}
		if hasKeyChapter && hasSub {
			return Header{Row: r, Cells: cells}, nil
		}
	}

	return Header{}, fmt.Errorf("%w in sheet %q (scanned %d rows)", ErrHeaderNotFound, s.Title(), maxRows)
}

func headerCells(s Sheet, row, maxCols int) []HeaderCell {
	var cells []HeaderCell
	seen := make(map[string]struct{})
	for c := 1; c <= maxCols; c++ {
		v := strings.TrimSpace(s.Cell(row, c))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		cells = append(cells, HeaderCell{Label: v, Col: c})
	}
	return cells
}

// Labels returns the literal header labels in column order.
func (h Header) Labels() []string {
	labels := make([]string, len(h.Cells))
	for i, c := range h.Cells {
		labels[i] = c.Label
	}
	return labels
}

// Find returns the first column (in column order) whose normalized header
// contains any of the normalized needles.
func (h Header) Find(needles ...string) (int, bool) {
	return h.find(needles, nil)
}

func (h Header) find(needles []string, claimed map[int]struct{}) (int, bool) {
	ns := normNeedles(needles)
	if len(ns) == 0 {
		return 0, false
	}
	for _, cell := range h.Cells {
		if _, taken := claimed[cell.Col]; taken {
			continue
		}
		if containsAny(NormHeader(cell.Label), ns) {
			return cell.Col, true
		}
	}
	return 0, false
}

func normNeedles(needles []string) []string {
	out := make([]string, 0, len(needles))
	for _, n := range needles {
		if strings.TrimSpace(n) == "" {
			continue
		}
		out = append(out, NormHeader(n))
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Column names a logical column of a catalog sheet.
type Column string

const (
	ColChapter      Column = "chapter"
	ColCriterion    Column = "criterion"
	ColSubcriterion Column = "subcriterion"
	ColDescription  Column = "description"
	ColScore        Column = "score"
	ColComment      Column = "comment"
	ColEvidence     Column = "evidence"
	ColEvidenceType Column = "evidence_type"
)

// ColumnRule maps a logical column to its candidate header substrings.
type ColumnRule struct {
	Column  Column   `yaml:"column"`
	Needles []string `yaml:"needles"`
}

// Columns is the resolved logical column -> sheet column mapping of one sheet.
type Columns struct {
	sheet  string
	header Header
	index  map[Column]int
}

// Resolve applies rules in order. A sheet column claimed by an earlier rule is not
// considered again, so "Evidenz-Typ" listed before "Evidenz" keeps both apart.
func (h Header) Resolve(sheet string, rules []ColumnRule) Columns {
	cols := Columns{sheet: sheet, header: h, index: make(map[Column]int)}
	claimed := make(map[int]struct{})
	for _, rule := range rules {
		if _, done := cols.index[rule.Column]; done {
			continue
		}
		if c, ok := h.find(rule.Needles, claimed); ok {
			cols.index[rule.Column] = c
			claimed[c] = struct{}{}
		}
	}
	return cols
}

// Get returns the sheet column of a logical column.
func (c Columns) Get(col Column) (int, bool) {
	idx, ok := c.index[col]
	return idx, ok
}

// Value returns the cell of logical column col in row, or "" when the column is unresolved.
func (c Columns) Value(s Sheet, row int, col Column) string {
	idx, ok := c.index[col]
	if !ok {
		return ""
	}
	return s.Cell(row, idx)
}

// Require fails with ErrColumnMissing for the first unresolved column.
func (c Columns) Require(cols ...Column) error {
	for _, col := range cols {
		if _, ok := c.index[col]; !ok {
			return fmt.Errorf("%w: %s in sheet %q (headers found: %s)",
				ErrColumnMissing, col, c.sheet, strings.Join(c.header.Labels(), ", "))
		}
	}
	return nil
}
