package models

// RowRecord is one fully resolved sub-criterion row of a sheet.
// Template and product sheets produce comparable sequences of records.
type RowRecord struct {
	// Row is the 1-based sheet row the record was read from.
	Row int `json:"row"`
	// DomainID is the id of the active domain.
	DomainID string `json:"domain_id"`
	// DomainName is the display name of the active domain.
	DomainName string `json:"domain_name"`
	// CriterionID is the synthesized id of the active criterion.
	CriterionID string `json:"criterion_id"`
	// CriterionName is the criterion label without its numeric prefix.
	CriterionName string `json:"criterion_name"`
	// CriterionPrefix is the leading dotted number of the criterion label, or its slug.
	CriterionPrefix string `json:"criterion_prefix"`
	// SubcriterionID is the synthesized sub-criterion id.
	SubcriterionID string `json:"subcriterion_id"`
	// SubcriterionName is the whitespace-normalized sub-criterion label.
	SubcriterionName string `json:"subcriterion_name"`
	// ShortDesc is the truncated description cell.
	ShortDesc string `json:"short_desc"`
	// ChapterRef is the validated chapter reference; empty when absent or not structural.
	ChapterRef string `json:"chapter_ref,omitempty"`
}
