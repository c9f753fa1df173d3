package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ukaji3/kriterion-go/pkg/kriterion/models"
)

var (
	evidenceSplitRe = regexp.MustCompile(`[\r\n;]+`)
	urlRe           = regexp.MustCompile(`https?://\S+`)
)

// urlTrailing is stripped from the end of extracted URLs.
const urlTrailing = ").,;:!?'\"]>"

// EvidenceParser itemizes free-text evidence cells.
type EvidenceParser struct {
	// LabelPrefix starts numbered labels ("Source 1").
	LabelPrefix string
	// TypeSeparator joins a numbered label and the evidence type annotation.
	TypeSeparator string
}

// DefaultEvidenceParser returns a parser producing "Source N – <type>" labels.
func DefaultEvidenceParser() EvidenceParser {
	return EvidenceParser{LabelPrefix: "Source", TypeSeparator: " – "}
}

// SplitEvidence splits raw evidence text on newlines and semicolons into trimmed, non-empty fragments.
func SplitEvidence(raw string) []string {
	if IsEmpty(raw) {
		return nil
	}
	var parts []string
	for _, p := range evidenceSplitRe.Split(strings.TrimSpace(raw), -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// ExtractURL returns the first http(s) URL in s without trailing punctuation.
func ExtractURL(s string) string {
	return strings.TrimRight(urlRe.FindString(s), urlTrailing)
}

// Parse returns one link per fragment of raw. Fragments carrying a URL get a numbered
// label, text-only fragments are labelled with their text. hyperlink is the cell's
// own hyperlink target; it fills the URL of a single text-only fragment, or stands
// alone when the cell text is empty. The result is never nil.
func (p EvidenceParser) Parse(raw, evidenceType, hyperlink string) []models.EvidenceLink {
	links := []models.EvidenceLink{}
	typ := NormText(evidenceType)
	hyperlink = strings.TrimSpace(hyperlink)

	parts := SplitEvidence(raw)
	if len(parts) == 0 {
		if hyperlink != "" {
			links = append(links, models.EvidenceLink{Label: p.numbered(1, typ), URL: hyperlink})
		}
		return links
	}

	for i, part := range parts {
		url := ExtractURL(part)
		label := p.numbered(i+1, typ)
		if url == "" {
			label = NormText(part)
			if len(parts) == 1 {
				url = hyperlink
			}
		}
		links = append(links, models.EvidenceLink{Label: label, URL: url})
	}
	return links
}

func (p EvidenceParser) numbered(n int, typ string) string {
	prefix := p.LabelPrefix
	if prefix == "" {
		prefix = "Source"
	}
	label := fmt.Sprintf("%s %d", prefix, n)
	if typ != "" {
		label += p.TypeSeparator + typ
	}
	return label
}
