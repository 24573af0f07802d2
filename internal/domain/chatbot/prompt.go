package chatbot

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mduarte/zapatende/internal/infra/llm/groq"
)

const (
	faqContextRule = "Base de FAQ relevante:\n%s\n\nRegra: use primeiro as informacoes acima. Se nao houver informacao suficiente no FAQ, diga que nao tem essa informacao no momento e ofereca encaminhamento humano."
	noContextRule  = "Regra: se nao tiver certeza, diga que vai verificar e ofereca encaminhamento humano."
)

func formatFaqRule(faqContext string) string {
	return fmt.Sprintf(faqContextRule, faqContext)
}

// tokenCounter measures prompt size with tiktoken, falling back to a bytes/4
// estimate when the encoding cannot be loaded (offline environments).
type tokenCounter struct {
	once    sync.Once
	encoder *tiktoken.Tiktoken
}

func (c *tokenCounter) count(text string) int {
	c.once.Do(func() {
		if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
			c.encoder = enc
		}
	})
	if c.encoder != nil {
		return len(c.encoder.Encode(text, nil, nil))
	}
	return len(text)/4 + 1
}

// trimToBudget drops the oldest history messages until the system messages
// plus the remaining history fit the token budget. The newest message (the
// one being answered) is always kept.
func (c *tokenCounter) trimToBudget(system []groq.Message, history []groq.Message, budget int) []groq.Message {
	if budget <= 0 || len(history) == 0 {
		return history
	}

	used := 0
	for _, msg := range system {
		used += c.count(msg.Content)
	}

	kept := history
	for len(kept) > 1 {
		total := used
		for _, msg := range kept {
			total += c.count(msg.Content)
		}
		if total <= budget {
			break
		}
		kept = kept[1:]
	}
	return kept
}
