// Package faqmatch ranks stored FAQ entries against an inbound message so the
// most relevant question/answer pairs can ground the model reply. The ranking
// is purely lexical: normalization, stop-word aware tokenization and a small
// additive scoring scheme. Everything here is side-effect free and safe for
// concurrent use.
package faqmatch

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is a read-only view of an active FAQ row. The question field may
// bundle several phrasing variants (see SplitVariants).
type Entry struct {
	Question string
	Answer   string
}

// Match is one ranked FAQ entry, produced fresh per call.
type Match struct {
	Question       string
	MatchedVariant string
	Answer         string
	Score          int
}

// Ranker scores FAQ entries with a fixed scoring config and lexicon.
type Ranker struct {
	scoring Scoring
	lexicon Lexicon
}

// NewRanker builds a ranker. Zero-valued scoring fields fall back to the
// reference defaults so a partially filled config stays usable.
func NewRanker(scoring Scoring, lexicon Lexicon) *Ranker {
	defaults := DefaultScoring()
	if scoring.VariantWeight <= 0 {
		scoring.VariantWeight = defaults.VariantWeight
	}
	if scoring.MaxEntries <= 0 {
		scoring.MaxEntries = defaults.MaxEntries
	}
	if scoring.MinTokenLen <= 0 {
		scoring.MinTokenLen = defaults.MinTokenLen
	}
	if lexicon.StopWords == nil && lexicon.ShortAllowed == nil {
		lexicon = DefaultLexicon()
	}
	return &Ranker{scoring: scoring, lexicon: lexicon}
}

// Rank scores every entry against the input and returns the surviving
// matches, best first. Entries whose final score is zero or below are
// dropped; ties keep scan order; at most MaxEntries are returned.
func (r *Ranker) Rank(entries []Entry, input string) []Match {
	text := strings.TrimSpace(input)
	if text == "" || len(entries) == 0 {
		return nil
	}

	normalizedInput := Normalize(text)
	inputTokens := r.Tokenize(text)

	matches := make([]Match, 0, len(entries))
	for _, entry := range entries {
		bestVariant := ""
		bestScore := 0
		for i, variant := range variantsOf(entry.Question) {
			score := r.scoreVariant(normalizedInput, inputTokens, variant)
			if i == 0 || score > bestScore {
				bestVariant = variant
				bestScore = score
			}
		}

		answerHits := countIntersection(inputTokens, r.Tokenize(entry.Answer))
		final := bestScore*r.scoring.VariantWeight + answerHits
		if final <= 0 {
			continue
		}
		matches = append(matches, Match{
			Question:       entry.Question,
			MatchedVariant: bestVariant,
			Answer:         entry.Answer,
			Score:          final,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > r.scoring.MaxEntries {
		matches = matches[:r.scoring.MaxEntries]
	}
	return matches
}

// Context renders the ranked matches as the numbered block injected ahead of
// the chat history, or the empty string when nothing is relevant enough.
func (r *Ranker) Context(entries []Entry, input string) string {
	matches := r.Rank(entries, input)
	if len(matches) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(matches))
	for i, m := range matches {
		blocks = append(blocks, fmt.Sprintf(
			"%d. Pergunta: %s\nVariação relevante: %s\nResposta: %s",
			i+1, m.Question, m.MatchedVariant, m.Answer,
		))
	}
	return strings.Join(blocks, "\n\n")
}
