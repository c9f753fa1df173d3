package models

// Product represents one evaluated product (one qualifying worksheet).
type Product struct {
	// ID is the slug of the sheet title.
	ID string `json:"id"`
	// Name is the raw sheet title.
	Name string `json:"name"`
	// Description is empty unless filled by a later stage.
	Description string `json:"description"`
}
