package parser

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestLoadSheet(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "ID (Kapitel)")
	f.SetCellValue(sheetName, "C1", "Unterkriterium")
	f.SetCellValue(sheetName, "A2", 2)
	f.SetCellValue(sheetName, "B2", "Whitepaper")
	if err := f.SetCellHyperLink(sheetName, "B2", "https://example.com/wp.pdf", "External"); err != nil {
		t.Fatalf("SetCellHyperLink failed: %v", err)
	}
	// linked cell without text
	if err := f.SetCellHyperLink(sheetName, "C2", "https://example.com/empty", "External"); err != nil {
		t.Fatalf("SetCellHyperLink failed: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	g, err := LoadSheet(f2, sheetName, true)
	if err != nil {
		t.Fatalf("LoadSheet failed: %v", err)
	}

	if g.Title() != sheetName {
		t.Errorf("Expected title %q, got %q", sheetName, g.Title())
	}
	if g.MaxRow() != 2 {
		t.Errorf("Expected 2 rows, got %d", g.MaxRow())
	}
	if g.MaxCol() != 3 {
		t.Errorf("Expected 3 columns, got %d", g.MaxCol())
	}
	if got := g.Cell(1, 3); got != "Unterkriterium" {
		t.Errorf("Expected 'Unterkriterium', got %q", got)
	}
	if got := g.Cell(2, 1); got != "2" {
		t.Errorf("Expected raw value '2', got %q", got)
	}
	if got := g.Link(2, 2); got != "https://example.com/wp.pdf" {
		t.Errorf("Expected hyperlink, got %q", got)
	}

	if got := g.Link(2, 3); got != "https://example.com/empty" {
		t.Errorf("Expected hyperlink of empty cell, got %q", got)
	}
	if got := g.Cell(2, 3); got != "" {
		t.Errorf("Expected empty cell, got %q", got)
	}

	g2, err := LoadSheet(f2, sheetName, false)
	if err != nil {
		t.Fatalf("LoadSheet failed: %v", err)
	}
	if got := g2.Link(2, 2); got != "" {
		t.Errorf("Expected no hyperlink without includeLinks, got %q", got)
	}
	if got := g2.Link(2, 3); got != "" {
		t.Errorf("Expected no hyperlink without includeLinks, got %q", got)
	}
}

func TestGridOutOfRange(t *testing.T) {
	g := NewGrid("s", [][]string{{"a", "b"}, {"c"}})

	tests := []struct {
		row, col int
		expected string
	}{
		{1, 1, "a"},
		{1, 2, "b"},
		{2, 2, ""},
		{0, 1, ""},
		{3, 1, ""},
		{1, 0, ""},
	}

	for _, tt := range tests {
		if got := g.Cell(tt.row, tt.col); got != tt.expected {
			t.Errorf("Cell(%d, %d) = %q, expected %q", tt.row, tt.col, got, tt.expected)
		}
	}
}

func TestLastDataColumn(t *testing.T) {
	rows := [][]string{
		{"a", "", ""},
		{"", "", "", "d", ""},
		{},
	}
	if got := lastDataColumn(rows); got != 4 {
		t.Errorf("lastDataColumn = %d, expected 4", got)
	}
}

func TestWorkbookKeepsSheetOrder(t *testing.T) {
	wb := NewWorkbook("book.xlsx",
		NewGrid("Vorlage", nil),
		NewGrid("Zeta", nil),
		NewGrid("Alpha", nil),
	)

	names := wb.SheetNames()
	expected := []string{"Vorlage", "Zeta", "Alpha"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d sheets, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("SheetNames()[%d] = %q, expected %q", i, names[i], expected[i])
		}
	}
	if _, ok := wb.Sheet("Missing"); ok {
		t.Error("Expected missing sheet lookup to fail")
	}
}
