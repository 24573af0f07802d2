package faqmatch

// Scoring holds the weights used when ranking FAQ entries against an
// inbound message. The defaults were tuned by hand against real
// conversations; treat them as knobs, not law.
type Scoring struct {
	// ExactBonus is added when the normalized input equals the variant.
	ExactBonus int
	// ContainsBonus is added when either normalized string contains the other.
	ContainsBonus int
	// CoverageBonus is added when every variant token appears inside the input.
	CoverageBonus int
	// VariantWeight multiplies the best variant score before answer-token
	// overlap is added.
	VariantWeight int
	// MaxEntries caps how many ranked entries make it into the context block.
	MaxEntries int
	// MinTokenLen is the shortest token kept outside the short allowlist.
	MinTokenLen int
}

// DefaultScoring returns the reference weights.
func DefaultScoring() Scoring {
	return Scoring{
		ExactBonus:    6,
		ContainsBonus: 4,
		CoverageBonus: 2,
		VariantWeight: 3,
		MaxEntries:    5,
		MinTokenLen:   3,
	}
}

// Lexicon carries the fixed word lists used by the tokenizer. The deployed
// locale is Brazilian Portuguese.
type Lexicon struct {
	StopWords    map[string]struct{}
	ShortAllowed map[string]struct{}
}

// DefaultLexicon returns the Portuguese stop words and the short greeting
// tokens that carry signal despite their length.
func DefaultLexicon() Lexicon {
	return Lexicon{
		StopWords: wordSet(
			"a", "o", "as", "os", "de", "da", "do", "das", "dos", "e", "em",
			"para", "por", "com", "um", "uma", "na", "no", "nas", "nos", "que",
		),
		ShortAllowed: wordSet("oi", "ola", "opa", "eai", "eae", "hey", "ok"),
	}
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
