// Package models defines the records produced by a catalog export.
package models

// Tree is the criteria catalog: domains, their criteria and sub-criteria.
type Tree struct {
	// Domains are ordered by the canonical domain order of the configuration.
	Domains []Domain `json:"domains"`
}

// Domain is a top-level grouping of criteria.
type Domain struct {
	// ID is the stable short code of the domain (e.g. "d1").
	ID string `json:"id"`
	// Name is the display label.
	Name string `json:"name"`
	// Criteria are kept in first-seen order.
	Criteria []Criterion `json:"criteria"`
}

// Criterion groups related sub-criteria within one domain.
type Criterion struct {
	// ID is derived from the domain id and the criterion prefix (e.g. "c_d1_3_1").
	ID string `json:"id"`
	// Name is the criterion label without its leading numeric prefix.
	Name string `json:"name"`
	// Subcriteria are kept in first-seen order.
	Subcriteria []Subcriterion `json:"subcriteria"`
}

// Subcriterion is a single evaluable item of the catalog.
type Subcriterion struct {
	// ID is unique within the tree.
	ID string `json:"id"`
	// Name is the whitespace-normalized sub-criterion label.
	Name string `json:"name"`
	// ShortDesc is the truncated test procedure or summary text.
	ShortDesc string `json:"short_desc"`
	// ChapterRef is the dotted structural reference (e.g. "3.1.2"), if any.
	ChapterRef string `json:"chapter_ref,omitempty"`
}

// SubcriterionIDs returns all sub-criterion ids in tree order, duplicates included.
func (t Tree) SubcriterionIDs() []string {
	var ids []string
	for _, d := range t.Domains {
		for _, c := range d.Criteria {
			for _, s := range c.Subcriteria {
				ids = append(ids, s.ID)
			}
		}
	}
	return ids
}

// Subcriterion looks up a sub-criterion by id.
func (t Tree) Subcriterion(id string) (Subcriterion, bool) {
	for _, d := range t.Domains {
		for _, c := range d.Criteria {
			for _, s := range c.Subcriteria {
				if s.ID == id {
					return s, true
				}
			}
		}
	}
	return Subcriterion{}, false
}
