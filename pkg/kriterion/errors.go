package kriterion

import (
	"errors"
	"fmt"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/catalog"
	"github.com/ukaji3/kriterion-go/pkg/kriterion/parser"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrTemplateNotFound indicates the workbook has no template sheet.
var ErrTemplateNotFound = errors.New("template sheet not found")

// ErrSheetNotFound indicates a sheet listed by the workbook could not be opened.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetError represents a fatal error while processing one sheet.
// It aborts the export of the whole workbook.
type SheetError struct {
	SheetName string
	Component string // "header", "columns", "alignment", "sheet"
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("export error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError, deriving the component from err.
func NewSheetError(sheetName string, err error) *SheetError {
	return &SheetError{
		SheetName: sheetName,
		Component: componentOf(err),
		Err:       err,
	}
}

func componentOf(err error) string {
	switch {
	case errors.Is(err, parser.ErrHeaderNotFound):
		return "header"
	case errors.Is(err, parser.ErrColumnMissing):
		return "columns"
	case errors.Is(err, catalog.ErrRowCountMismatch):
		return "alignment"
	default:
		return "sheet"
	}
}
