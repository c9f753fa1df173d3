package models

// Score is the evaluation of one product against one sub-criterion.
type Score struct {
	// ProductID references Product.ID.
	ProductID string `json:"product_id"`
	// SubcriterionID references Subcriterion.ID of the tree.
	SubcriterionID string `json:"subcriterion_id"`
	// Score is 0, 1 or 2.
	Score int `json:"score"`
	// AuditComment is the whitespace-normalized comment cell (may be empty).
	AuditComment string `json:"audit_comment"`
	// EvidenzLinks lists the evidence references in cell order.
	EvidenzLinks []EvidenceLink `json:"evidenz_links"`
}

// EvidenceLink is one itemized evidence reference.
type EvidenceLink struct {
	// Label is either a numbered source label or the fragment text.
	Label string `json:"label"`
	// URL is empty for text-only references.
	URL string `json:"url"`
}
