package parser

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DomainRef maps a column-A domain marker label to its id and display name.
type DomainRef struct {
	Label string `yaml:"label"`
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
}

// DomainTable is an immutable, ordered set of known domains.
type DomainTable struct {
	entries []DomainRef
	byLabel map[string]DomainRef
}

// NewDomainTable builds a table; the entry order is the canonical domain order.
// A repeated label keeps its first entry.
func NewDomainTable(entries ...DomainRef) DomainTable {
	t := DomainTable{byLabel: make(map[string]DomainRef, len(entries))}
	for _, e := range entries {
		key := domainKey(e.Label)
		if _, dup := t.byLabel[key]; dup {
			continue
		}
		t.byLabel[key] = e
		t.entries = append(t.entries, e)
	}
	return t
}

// Lookup matches the trimmed cell value exactly against the known labels.
func (t DomainTable) Lookup(label string) (DomainRef, bool) {
	if IsEmpty(label) {
		return DomainRef{}, false
	}
	d, ok := t.byLabel[domainKey(label)]
	return d, ok
}

// Order returns the domain ids in canonical order, without repeats.
func (t DomainTable) Order() []string {
	seen := make(map[string]struct{}, len(t.entries))
	var ids []string
	for _, e := range t.entries {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		ids = append(ids, e.ID)
	}
	return ids
}

// Entries returns a copy of the table entries.
func (t DomainTable) Entries() []DomainRef {
	out := make([]DomainRef, len(t.entries))
	copy(out, t.entries)
	return out
}

func domainKey(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}
