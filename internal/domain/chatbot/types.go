package chatbot

import (
	"context"
	"time"

	"github.com/mduarte/zapatende/internal/infra/llm/groq"
)

// Inbound is one webhook message after transport decoding.
type Inbound struct {
	WaID        string
	MessageID   string
	ProfileName string
	Type        string
	Text        string
}

// Config drives the reply pipeline.
type Config struct {
	Persona         string
	Model           string
	Temperature     float32
	HistoryLimit    int
	MaxPromptTokens int
	HumanDelayMin   time.Duration
	HumanDelayMax   time.Duration
	DedupTTL        time.Duration
}

// ChatClient is the LLM collaborator.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req groq.ChatCompletionRequest) (groq.ChatCompletionResponse, error)
}

// Messenger sends outbound WhatsApp traffic.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	// SendTypingIndicator marks the message read and shows the typing state.
	SendTypingIndicator(ctx context.Context, messageID string) error
}

// DedupStore drops webhook redeliveries. MarkProcessed reports whether the
// message ID was seen for the first time.
type DedupStore interface {
	MarkProcessed(ctx context.Context, messageID string, ttl time.Duration) (bool, error)
}

// Canned replies, in the deployment locale.
const (
	textOnlyNotice = "Por enquanto eu só entendo texto 🙂"
	errorFallback  = "Desculpe, tive um problema aqui. Pode repetir?"
	emptyFallback  = "Desculpe, não consegui responder agora."
)
