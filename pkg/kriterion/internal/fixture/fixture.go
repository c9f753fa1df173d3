// Package fixture builds small catalog workbooks for tests.
package fixture

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

// HeaderRow is the row index of Header in every generated sheet.
const HeaderRow = 2

// EvidenceCol is the column of the evidence cell.
const EvidenceCol = 8

// Header is the header row of the generated sheets.
var Header = []string{
	"ID (Kapitel)", "Kriterium", "Unterkriterium", "Prüfverfahren",
	"Scoring (0-2)", "Kommentar", "Evidenz-Typ", "Evidenz / Quelle",
}

// Line is a sheet line below the header: a domain marker when Domain is set,
// a sub-criterion row otherwise.
type Line struct {
	Domain string

	Chapter      string
	Criterion    string
	Subcriterion string
	Description  string
	Score        string
	Comment      string
	EvidenceType string
	Evidence     string
	// Link is the hyperlink target of the evidence cell.
	Link string
}

func (l Line) cells() []string {
	if l.Domain != "" {
		return []string{l.Domain}
	}
	return []string{
		l.Chapter, l.Criterion, l.Subcriterion, l.Description,
		l.Score, l.Comment, l.EvidenceType, l.Evidence,
	}
}

// Sheet describes one worksheet.
type Sheet struct {
	Title string
	Lines []Line
}

// Standard returns a catalog of three sub-criteria in two domains.
// The last one carries no chapter reference.
func Standard() []Line {
	return []Line{
		{Domain: "Security & Compliance"},
		{Chapter: "3.1.1", Criterion: "3.1 Access Control", Subcriterion: "MFA enforced", Description: "Prüft MFA"},
		{Chapter: "3.1.2", Subcriterion: "Session timeout", Description: "Prüft Timeouts"},
		{Domain: "Produkt, Betrieb & Adoption"},
		{Criterion: "7.1 Betrieb", Subcriterion: "Backup-Konzept", Description: "Prüft Backups"},
	}
}

// Scored returns a copy of lines with the scores assigned to the sub-criterion rows in order.
func Scored(lines []Line, scores ...string) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	i := 0
	for j := range out {
		if out[j].Domain != "" || i >= len(scores) {
			continue
		}
		out[j].Score = scores[i]
		i++
	}
	return out
}

// Grid renders a sheet with a title row, the header row and the lines.
func Grid(s Sheet) *parser.Grid {
	rows := [][]string{{"Kriterienkatalog " + s.Title}, Header}
	for _, l := range s.Lines {
		rows = append(rows, l.cells())
	}
	g := parser.NewGrid(s.Title, rows)
	for i, l := range s.Lines {
		if l.Link != "" {
			g.SetLink(HeaderRow+1+i, EvidenceCol, l.Link)
		}
	}
	return g
}

// Workbook renders sheets into an in-memory workbook.
func Workbook(name string, sheets ...Sheet) *parser.Workbook {
	grids := make([]*parser.Grid, len(sheets))
	for i, s := range sheets {
		grids[i] = Grid(s)
	}
	return parser.NewWorkbook(name, grids...)
}

// WriteXLSX writes the sheets to an xlsx file in order. Integer scores are stored as numbers.
func WriteXLSX(path string, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Title); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Title); err != nil {
			return err
		}
		if err := writeSheet(f, s); err != nil {
			return fmt.Errorf("sheet %q: %w", s.Title, err)
		}
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, s Sheet) error {
	g := Grid(s)
	for r := 1; r <= g.MaxRow(); r++ {
		for c := 1; c <= g.MaxCol(); c++ {
			v, link := g.Cell(r, c), g.Link(r, c)
			if v == "" && link == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			if v != "" {
				var value interface{} = v
				if n, err := strconv.Atoi(v); err == nil && c == 5 && r > HeaderRow {
					value = n
				}
				if err := f.SetCellValue(s.Title, cell, value); err != nil {
					return err
				}
			}
			if link != "" {
				if err := f.SetCellHyperLink(s.Title, cell, link, "External"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
