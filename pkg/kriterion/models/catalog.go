package models

// WarningKind classifies a recoverable data-quality issue.
type WarningKind string

const (
	// WarnRowCountMismatch marks a product sheet whose resolved row count differs from the template.
	WarnRowCountMismatch WarningKind = "row_count_mismatch"
	// WarnDuplicateID marks sub-criterion ids occurring more than once in the tree.
	WarnDuplicateID WarningKind = "duplicate_subcriterion_id"
	// WarnScoreCoerced marks non-empty score cells outside {0,1,2} that were coerced to 0.
	WarnScoreCoerced WarningKind = "score_coerced"
	// WarnUnmatchedRow marks product rows that could not be paired with a template row.
	WarnUnmatchedRow WarningKind = "unmatched_row"
	// WarnDuplicateProduct marks product sheets whose titles slug to the same id.
	WarnDuplicateProduct WarningKind = "duplicate_product_id"
)

// Warning is a non-fatal issue surfaced to the operator.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Sheet   string      `json:"sheet,omitempty"`
	Message string      `json:"message"`
}

// Catalog is the complete result of exporting one workbook.
type Catalog struct {
	// Tree is built from the template sheet.
	Tree Tree `json:"tree"`
	// Products lists the product sheets in workbook order.
	Products []Product `json:"products"`
	// Scores lists the score records of all products.
	Scores []Score `json:"scores"`
	// Warnings collects all recoverable issues of the run.
	Warnings []Warning `json:"warnings,omitempty"`
}
