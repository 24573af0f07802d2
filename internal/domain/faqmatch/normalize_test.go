package faqmatch

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "lowercases", in: "HORÁRIO", out: "horario"},
		{name: "strips diacritics", in: "ação à noite", out: "acao a noite"},
		{name: "collapses whitespace", in: "  qual \t o  horário \n", out: "qual o horario"},
		{name: "empty input", in: "", out: ""},
		{name: "only punctuation survives", in: " ?! ", out: "?!"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"Qual o HORÁRIO de atendimento?", "ação", "  oi   tudo bem ", ""}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalizeCaseAndAccentVariantsCollapse(t *testing.T) {
	variants := []string{"HORÁRIO", "horario", "Horário"}
	want := Normalize(variants[0])
	for _, v := range variants[1:] {
		if got := Normalize(v); got != want {
			t.Fatalf("expected %q and %q to normalize identically, got %q vs %q", variants[0], v, want, got)
		}
	}
}
