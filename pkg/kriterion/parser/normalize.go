package parser

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Zs}]+`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)

	// the "&" word follows the German catalog labels
	slugReplacer = strings.NewReplacer(
		"ä", "ae",
		"ö", "oe",
		"ü", "ue",
		"ß", "ss",
		"&", " und ",
	)

	dashReplacer = strings.NewReplacer("–", "-", "—", "-")
)

// IsEmpty reports whether a cell value is blank (non-breaking spaces included).
func IsEmpty(v string) bool {
	return strings.TrimSpace(v) == ""
}

// NormText trims and collapses all whitespace runs to single spaces.
func NormText(s string) string {
	s = norm.NFC.String(s)
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// NormHeader is NormText plus lowercasing and dash unification, used for header matching.
func NormHeader(s string) string {
	return dashReplacer.Replace(strings.ToLower(NormText(s)))
}

// Slug lowercases s, transliterates umlauts and collapses everything else to "_".
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
	s = slugReplacer.Replace(s)
	s = nonAlnumRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ShortHash returns the first 8 hex characters of the SHA-1 of s.
func ShortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

// truncateRunes cuts s to limit runes and appends "…" when it was longer.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}

// prefixASCII returns at most n bytes of an ASCII slug.
func prefixASCII(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
