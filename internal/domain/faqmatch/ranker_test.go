package faqmatch

import (
	"strings"
	"testing"
)

func TestRankEmptyInputsReturnNothing(t *testing.T) {
	r := defaultRanker()
	faqs := []Entry{{Question: "Qual o horário?", Answer: "Das 9h às 18h."}}

	if got := r.Context(nil, "qualquer texto"); got != "" {
		t.Fatalf("expected empty context without FAQs, got %q", got)
	}
	if got := r.Context(faqs, ""); got != "" {
		t.Fatalf("expected empty context for empty input, got %q", got)
	}
	if got := r.Context(faqs, "   "); got != "" {
		t.Fatalf("expected empty context for blank input, got %q", got)
	}
}

func TestRankExactMatchOutranksPartialOverlap(t *testing.T) {
	r := defaultRanker()
	faqs := []Entry{
		{Question: "Vocês entregam em todo o Brasil?", Answer: "Sim, horario de coleta até 16h."},
		{Question: "Qual o horário de atendimento?", Answer: "Atendemos das 9h às 18h."},
	}

	matches := r.Rank(faqs, "qual o horario de atendimento?")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Question != "Qual o horário de atendimento?" {
		t.Fatalf("expected exact-match entry first, got %q", matches[0].Question)
	}

	// tokens: qual(1) horario(1) atendimento(1) + exact 6 + contains 4 + coverage 2 = 15; ×3 = 45
	if matches[0].Score != 45 {
		t.Fatalf("expected exact-match score 45, got %d", matches[0].Score)
	}
	if matches[0].Score <= matches[1].Score {
		t.Fatalf("exact match did not dominate: %d vs %d", matches[0].Score, matches[1].Score)
	}
}

func TestRankPicksBestVariant(t *testing.T) {
	r := defaultRanker()
	faqs := []Entry{{Question: "Como pagar?;Formas de pagamento", Answer: "Pix, boleto e cartão."}}

	matches := r.Rank(faqs, "quais formas de pagamento aceitam")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].MatchedVariant != "Formas de pagamento" {
		t.Fatalf("expected variant with higher overlap, got %q", matches[0].MatchedVariant)
	}
}

func TestRankAnswerHitsBreakVariantTies(t *testing.T) {
	r := defaultRanker()
	// Same question text, so the best-variant score is identical; only the
	// answer-token overlap can separate them.
	faqs := []Entry{
		{Question: "Prazo de entrega", Answer: "Consulte o site."},
		{Question: "Prazo de entrega", Answer: "O prazo de entrega e de cinco dias."},
	}

	matches := r.Rank(faqs, "qual o prazo de entrega")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Answer != "O prazo de entrega e de cinco dias." {
		t.Fatalf("expected answer overlap to win the tie, got %q first", matches[0].Answer)
	}
	// Answer tokens "prazo" and "entrega" both hit the input.
	if matches[0].Score != matches[1].Score+2 {
		t.Fatalf("expected exactly 2 extra answer hits: %d vs %d", matches[0].Score, matches[1].Score)
	}
}

func TestRankWeightingArithmetic(t *testing.T) {
	r := defaultRanker()
	faqs := []Entry{
		// best variant: 3 token hits, no bonuses -> 3*3 + 0 answer hits = 9
		{Question: "parcelar compra cartao juros", Answer: "Sim, sem juros."},
		// best variant: 2 token hits -> 2*3, plus 4 answer hits = 10
		{Question: "parcelar compra online", Answer: "consigo parcelar: compra no cartao sim"},
	}

	matches := r.Rank(faqs, "consigo parcelar a compra no cartao")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Question != "parcelar compra online" {
		t.Fatalf("expected higher answer overlap to outrank, got %q first", matches[0].Question)
	}
	if matches[0].Score != 10 || matches[1].Score != 9 {
		t.Fatalf("expected scores 10 and 9, got %d and %d", matches[0].Score, matches[1].Score)
	}
}

func TestRankDropsZeroScoresAndCapsAtFive(t *testing.T) {
	r := defaultRanker()
	faqs := []Entry{
		{Question: "Política de trocas", Answer: "Trocas em até 7 dias."},
	}
	for i := 0; i < 8; i++ {
		faqs = append(faqs, Entry{Question: "Horário de funcionamento", Answer: "Das 9h às 18h, horario comercial."})
	}

	matches := r.Rank(faqs, "qual o horario de funcionamento")
	if len(matches) != 5 {
		t.Fatalf("expected cap at 5 entries, got %d", len(matches))
	}
	for _, m := range matches {
		if m.Score <= 0 {
			t.Fatalf("entry with non-positive score survived: %+v", m)
		}
		if m.Question == "Política de trocas" {
			t.Fatalf("zero-overlap entry should have been filtered out")
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatalf("matches not sorted descending at %d", i)
		}
	}
}

func TestContextRendersNumberedBlocks(t *testing.T) {
	r := defaultRanker()
	faqs := []Entry{
		{Question: "Como pagar?;Formas de pagamento", Answer: "Pix, boleto e cartão."},
		{Question: "Qual o horário?", Answer: "Das 9h às 18h."},
	}

	got := r.Context(faqs, "formas de pagamento e horario")
	if got == "" {
		t.Fatal("expected a rendered context block")
	}
	if !strings.HasPrefix(got, "1. Pergunta: ") {
		t.Fatalf("unexpected block prefix: %q", got)
	}
	if !strings.Contains(got, "Variação relevante: Formas de pagamento") {
		t.Fatalf("matched variant missing from render: %q", got)
	}
	if !strings.Contains(got, "\n\n2. Pergunta: ") {
		t.Fatalf("expected blank-line separated second block: %q", got)
	}
}
