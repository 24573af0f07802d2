package faqmatch

import "strings"

// scoreVariant rates one question variant against the already normalized and
// tokenized input. Contributions are additive: the token-overlap base keeps
// partial matches above zero while the bonuses, ordered by specificity, let
// certain matches dominate.
func (r *Ranker) scoreVariant(normalizedInput string, inputTokens []string, variant string) int {
	normalizedVariant := Normalize(variant)
	if normalizedVariant == "" {
		return 0
	}

	variantTokens := r.Tokenize(normalizedVariant)
	score := countIntersection(inputTokens, variantTokens)

	if normalizedInput == normalizedVariant {
		score += r.scoring.ExactBonus
	}

	if len(normalizedVariant) >= 2 &&
		(strings.Contains(normalizedInput, normalizedVariant) || strings.Contains(normalizedVariant, normalizedInput)) {
		score += r.scoring.ContainsBonus
	}

	if len(variantTokens) > 0 && allTokensContained(variantTokens, normalizedInput) {
		score += r.scoring.CoverageBonus
	}

	return score
}

func allTokensContained(tokens []string, haystack string) bool {
	for _, token := range tokens {
		if !strings.Contains(haystack, token) {
			return false
		}
	}
	return true
}
