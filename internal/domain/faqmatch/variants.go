package faqmatch

import "strings"

var variantSeparators = func() map[rune]struct{} {
	return map[rune]struct{}{'\n': {}, '\r': {}, ';': {}, ',': {}, '|': {}}
}()

// SplitVariants breaks a stored question into its phrasing variants. A single
// FAQ row may bundle several wordings of the same question separated by
// newlines, semicolons, commas or pipes, e.g.
// "Qual o horário?;Que horas vocês abrem?".
func SplitVariants(question string) []string {
	parts := strings.FieldsFunc(question, func(r rune) bool {
		_, ok := variantSeparators[r]
		return ok
	})

	var variants []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			variants = append(variants, trimmed)
		}
	}
	return variants
}

// variantsOf is SplitVariants with the single-string fallback: a question
// with no usable delimiter still yields itself as the one variant, so an
// ordinary FAQ always participates in scoring.
func variantsOf(question string) []string {
	if variants := SplitVariants(question); len(variants) > 0 {
		return variants
	}
	return []string{strings.TrimSpace(question)}
}
