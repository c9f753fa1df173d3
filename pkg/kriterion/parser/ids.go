package parser

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	criterionSlugLen    = 12
	subcriterionSlugLen = 24
	fallbackPrefix      = "crit"
)

var (
	chapterRe         = regexp.MustCompile(`^\d+(\.\d+)+$`)
	criterionPrefixRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+`)
)

// ParseChapterRef normalizes a chapter cell and reports whether it is a structural
// reference: at least two dot-separated integer groups, e.g. "4.1.2".
func ParseChapterRef(raw string) (string, bool) {
	s := NormText(raw)
	if !chapterRe.MatchString(s) {
		return "", false
	}
	return s, true
}

// CriterionPrefix extracts the leading dotted number of a criterion label
// ("3.2 Security Maturity" -> "3.2"). Labels without one fall back to a short slug.
func CriterionPrefix(label string) string {
	s := NormText(label)
	if m := criterionPrefixRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if slug := prefixASCII(Slug(s), criterionSlugLen); slug != "" {
		return slug
	}
	return fallbackPrefix
}

// CriterionName strips the leading numeric prefix from a criterion label.
func CriterionName(label string) string {
	s := NormText(label)
	if name := strings.TrimSpace(criterionPrefixRe.ReplaceAllString(s, "")); name != "" {
		return name
	}
	return s
}

// CriterionID returns c_<domain>_<prefix>, dots replaced by underscores.
func CriterionID(domainID, prefix string) string {
	return "c_" + domainID + "_" + underscoreDots(prefix)
}

// SubcriterionID derives the sub-criterion id. A structural chapter makes the id
// depend on domain and chapter only; otherwise slug and content hash of
// domain|prefix|name keep chapter-less rows apart.
func SubcriterionID(domainID, prefix, name, chapter string) string {
	if chapterRe.MatchString(chapter) {
		return "s_" + domainID + "_" + underscoreDots(chapter)
	}
	base := domainID + "|" + prefix + "|" + NormText(name)
	return fmt.Sprintf("s_%s_%s_%s_%s",
		domainID, underscoreDots(prefix), prefixASCII(Slug(name), subcriterionSlugLen), ShortHash(base))
}

func underscoreDots(s string) string {
	return strings.ReplaceAll(s, ".", "_")
}
