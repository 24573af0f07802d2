package faqmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the text, strips combining diacritical marks
// ("ação" becomes "acao"), collapses whitespace runs to single spaces and
// trims the ends. It is total and idempotent.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	folded, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// transform only fails on malformed UTF-8; fall back to the lowered text.
		folded = lowered
	}
	return strings.Join(strings.Fields(folded), " ")
}
