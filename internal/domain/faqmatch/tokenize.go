package faqmatch

import "strings"

// Tokenize normalizes the text and splits it into match tokens. Characters
// outside ASCII letters, digits and spaces become separators. A candidate
// survives when it is long enough (or short-allowlisted) and is not a stop
// word. Order and duplicates are preserved so callers can count overlap.
func (r *Ranker) Tokenize(text string) []string {
	cleaned := replaceNonAlnum(Normalize(text))

	var tokens []string
	for _, part := range strings.Fields(cleaned) {
		if _, stop := r.lexicon.StopWords[part]; stop {
			continue
		}
		if len(part) >= r.scoring.MinTokenLen {
			tokens = append(tokens, part)
			continue
		}
		if _, ok := r.lexicon.ShortAllowed[part]; ok {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

func replaceNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// countIntersection counts how many tokens of a appear in b, testing
// membership against the set of b. Duplicates on the a side each count.
func countIntersection(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, token := range b {
		set[token] = struct{}{}
	}
	hits := 0
	for _, token := range a {
		if _, ok := set[token]; ok {
			hits++
		}
	}
	return hits
}
