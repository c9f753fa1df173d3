// Package parser turns loosely formatted catalog worksheets into resolved row records.
package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is a cell-addressable worksheet. Rows and columns are 1-based;
// an empty string means the cell is empty or out of range.
type Sheet interface {
	Title() string
	Cell(row, col int) string
	MaxRow() int
	MaxCol() int
}

// LinkSheet is implemented by sheets that carry cell hyperlinks.
type LinkSheet interface {
	Link(row, col int) string
}

type cellRef struct {
	row, col int
}

// Grid is an in-memory Sheet.
type Grid struct {
	title  string
	rows   [][]string
	links  map[cellRef]string
	maxCol int
}

// NewGrid creates a Grid from row-major cell values (rows[0] is row 1).
func NewGrid(title string, rows [][]string) *Grid {
	return &Grid{
		title:  title,
		rows:   rows,
		maxCol: lastDataColumn(rows),
	}
}

// Title returns the sheet title.
func (g *Grid) Title() string { return g.title }

// MaxRow returns the number of rows held by the grid.
func (g *Grid) MaxRow() int { return len(g.rows) }

// MaxCol returns the last column that holds data in any row.
func (g *Grid) MaxCol() int { return g.maxCol }

// Cell returns the value at (row, col).
func (g *Grid) Cell(row, col int) string {
	if row < 1 || row > len(g.rows) {
		return ""
	}
	r := g.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// Link returns the hyperlink target of the cell at (row, col), if any.
func (g *Grid) Link(row, col int) string {
	return g.links[cellRef{row, col}]
}

// SetLink attaches a hyperlink target to a cell.
func (g *Grid) SetLink(row, col int, target string) {
	if g.links == nil {
		g.links = make(map[cellRef]string)
	}
	g.links[cellRef{row, col}] = target
}

// lastDataColumn returns the 1-based index of the rightmost non-empty cell.
func lastDataColumn(rows [][]string) int {
	maxCol := 0
	for _, row := range rows {
		for colIdx := len(row) - 1; colIdx >= 0; colIdx-- {
			if row[colIdx] != "" {
				if colIdx+1 > maxCol {
					maxCol = colIdx + 1
				}
				break
			}
		}
	}
	return maxCol
}

// LoadSheet reads a worksheet into a Grid using raw (unformatted) cell values.
// With includeLinks, cell hyperlinks within the data bounds are attached as well,
// including those of cells without text.
func LoadSheet(f *excelize.File, sheetName string, includeLinks bool) (*Grid, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	g := NewGrid(sheetName, rows)
	if !includeLinks {
		return g, nil
	}

	// a linked cell may hold no text, so every cell in the data bounds is checked
	for row := 1; row <= g.MaxRow(); row++ {
		for col := 1; col <= g.MaxCol(); col++ {
			cellName, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				continue
			}
			hasLink, target, err := f.GetCellHyperLink(sheetName, cellName)
			if err == nil && hasLink && target != "" {
				g.SetLink(row, col, target)
			}
		}
	}
	return g, nil
}

// Workbook is a fully loaded workbook that keeps the original sheet order.
type Workbook struct {
	// Name is the workbook file name (no path).
	Name   string
	names  []string
	sheets map[string]*Grid
}

// NewWorkbook assembles a Workbook from grids in sheet order.
func NewWorkbook(name string, grids ...*Grid) *Workbook {
	wb := &Workbook{Name: name, sheets: make(map[string]*Grid, len(grids))}
	for _, g := range grids {
		if _, dup := wb.sheets[g.Title()]; !dup {
			wb.names = append(wb.names, g.Title())
		}
		wb.sheets[g.Title()] = g
	}
	return wb
}

// LoadWorkbook reads every sheet of f into memory.
func LoadWorkbook(f *excelize.File, name string, includeLinks bool) (*Workbook, error) {
	var grids []*Grid
	for _, sheetName := range f.GetSheetList() {
		g, err := LoadSheet(f, sheetName, includeLinks)
		if err != nil {
			return nil, fmt.Errorf("load sheet %q: %w", sheetName, err)
		}
		grids = append(grids, g)
	}
	return NewWorkbook(name, grids...), nil
}

// SheetNames returns the sheet titles in workbook order.
func (w *Workbook) SheetNames() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// Sheet returns the sheet with the given title.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	g, ok := w.sheets[name]
	if !ok {
		return nil, false
	}
	return g, true
}
