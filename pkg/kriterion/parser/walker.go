package parser

import (
	"iter"
	"slices"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
)

// markerColumn holds the domain marker labels.
const markerColumn = 1

// DefaultDescLimit is the rune limit of short descriptions.
const DefaultDescLimit = 180

// Layout is the immutable sheet layout configuration shared by template and product sheets.
type Layout struct {
	Bounds    Bounds
	Header    HeaderRules
	Columns   []ColumnRule
	Domains   DomainTable
	DescLimit int
}

// Resolved is the outcome of walking one sheet.
type Resolved struct {
	Header  Header
	Columns Columns
	Records []models.RowRecord
}

// Resolve locates the header of s, resolves its columns and collects all row records.
func (l Layout) Resolve(s Sheet) (Resolved, error) {
	h, err := FindHeader(s, l.Bounds, l.Header)
	if err != nil {
		return Resolved{}, err
	}
	cols := h.Resolve(s.Title(), l.Columns)
	if err := cols.Require(ColSubcriterion); err != nil {
		return Resolved{}, err
	}
	w := Walker{Sheet: s, Header: h, Columns: cols, Domains: l.Domains, DescLimit: l.DescLimit}
	return Resolved{Header: h, Columns: cols, Records: slices.Collect(w.Rows())}, nil
}

// Walker streams the resolved sub-criterion rows of a sheet.
type Walker struct {
	Sheet     Sheet
	Header    Header
	Columns   Columns
	Domains   DomainTable
	DescLimit int
}

// rawRow holds the cells of one sheet row the walker looks at.
type rawRow struct {
	row         int
	marker      string
	belowHeader bool
	criterion   string
	sub         string
	chapter     string
	desc        string
}

type criterionContext struct {
	id     string
	name   string
	prefix string
}

// rowContext is the domain/criterion context carried from row to row.
// It is a value: step returns the next context instead of mutating it.
type rowContext struct {
	domain       DomainRef
	hasDomain    bool
	criterion    criterionContext
	hasCriterion bool
}

// Rows returns a lazy sequence of resolved records. Every range over it
// starts again from the first row.
func (w Walker) Rows() iter.Seq[models.RowRecord] {
	return func(yield func(models.RowRecord) bool) {
		var ctx rowContext
		for r := 1; r <= w.Sheet.MaxRow(); r++ {
			next, rec, ok := ctx.step(w.read(r), w.Domains, w.DescLimit)
			ctx = next
			if ok && !yield(rec) {
				return
			}
		}
	}
}

func (w Walker) read(r int) rawRow {
	return rawRow{
		row:         r,
		marker:      w.Sheet.Cell(r, markerColumn),
		belowHeader: r > w.Header.Row,
		criterion:   w.Columns.Value(w.Sheet, r, ColCriterion),
		sub:         w.Columns.Value(w.Sheet, r, ColSubcriterion),
		chapter:     w.Columns.Value(w.Sheet, r, ColChapter),
		desc:        w.Columns.Value(w.Sheet, r, ColDescription),
	}
}

func (c rowContext) step(row rawRow, domains DomainTable, descLimit int) (rowContext, models.RowRecord, bool) {
	// a domain marker resets the criterion context, also above the header row
	if d, ok := domains.Lookup(row.marker); ok {
		c = rowContext{domain: d, hasDomain: true}
	}

	if !row.belowHeader || IsEmpty(row.sub) || !c.hasDomain {
		return c, models.RowRecord{}, false
	}

	if !IsEmpty(row.criterion) {
		label := NormText(row.criterion)
		prefix := CriterionPrefix(label)
		c.criterion = criterionContext{
			id:     CriterionID(c.domain.ID, prefix),
			name:   CriterionName(label),
			prefix: prefix,
		}
		c.hasCriterion = true
	}
	if !c.hasCriterion {
		return c, models.RowRecord{}, false
	}

	name := NormText(row.sub)
	chapter, _ := ParseChapterRef(row.chapter)

	if descLimit == 0 {
		descLimit = DefaultDescLimit
	}

	return c, models.RowRecord{
		Row:              row.row,
		DomainID:         c.domain.ID,
		DomainName:       c.domain.Name,
		CriterionID:      c.criterion.id,
		CriterionName:    c.criterion.name,
		CriterionPrefix:  c.criterion.prefix,
		SubcriterionID:   SubcriterionID(c.domain.ID, c.criterion.prefix, name, chapter),
		SubcriterionName: name,
		ShortDesc:        truncateRunes(NormText(row.desc), descLimit),
		ChapterRef:       chapter,
	}, true
}
