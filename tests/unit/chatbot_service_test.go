package unit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mduarte/zapatende/internal/domain/chatbot"
	"github.com/mduarte/zapatende/internal/domain/crm"
	"github.com/mduarte/zapatende/internal/domain/faqmatch"
	"github.com/mduarte/zapatende/internal/infra/chatrepo"
	"github.com/mduarte/zapatende/internal/infra/dedupstore"
	"github.com/mduarte/zapatende/internal/infra/faqrepo"
	"github.com/mduarte/zapatende/internal/infra/llm/groq"
)

func TestHandleInboundGroundsReplyOnFaq(t *testing.T) {
	env := newChatbotEnv(t)
	_, err := env.faqs.Create(context.Background(), "Qual o horário de atendimento?", "Atendemos das 9h às 18h.")
	require.NoError(t, err)

	env.client.reply = "Atendemos das 9h às 18h, posso ajudar em algo mais?"

	err = env.svc.HandleInbound(context.Background(), chatbot.Inbound{
		WaID:        "5511999990000",
		MessageID:   "wamid.10",
		ProfileName: "Maria",
		Type:        "text",
		Text:        "qual o horario de atendimento?",
	})
	require.NoError(t, err)

	req := env.client.lastRequest()
	require.GreaterOrEqual(t, len(req.Messages), 3)
	require.Equal(t, "system", req.Messages[0].Role)
	require.Equal(t, env.cfg.Persona, req.Messages[0].Content)
	require.Equal(t, "system", req.Messages[1].Role)
	require.Contains(t, req.Messages[1].Content, "Base de FAQ relevante:")
	require.Contains(t, req.Messages[1].Content, "Atendemos das 9h às 18h.")
	require.Equal(t, "user", req.Messages[len(req.Messages)-1].Role)
	require.Equal(t, "qual o horario de atendimento?", req.Messages[len(req.Messages)-1].Content)

	require.Equal(t, []string{env.client.reply}, env.messenger.sentBodies())

	stored, err := env.messages.RecentByContact(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, crm.DirectionIn, stored[0].Direction)
	require.Equal(t, crm.DirectionOut, stored[1].Direction)
	require.Equal(t, env.client.reply, stored[1].Body)
}

func TestHandleInboundWithoutFaqUsesFallbackRule(t *testing.T) {
	env := newChatbotEnv(t)
	env.client.reply = "Vou verificar e já te retorno."

	err := env.svc.HandleInbound(context.Background(), chatbot.Inbound{
		WaID:      "5511999990000",
		MessageID: "wamid.11",
		Type:      "text",
		Text:      "vocês entregam em Recife?",
	})
	require.NoError(t, err)

	req := env.client.lastRequest()
	require.Equal(t, "Regra: se nao tiver certeza, diga que vai verificar e ofereca encaminhamento humano.", req.Messages[1].Content)
}

func TestHandleInboundNonTextSendsNotice(t *testing.T) {
	env := newChatbotEnv(t)

	err := env.svc.HandleInbound(context.Background(), chatbot.Inbound{
		WaID:      "5511999990000",
		MessageID: "wamid.12",
		Type:      "audio",
	})
	require.NoError(t, err)

	require.Zero(t, env.client.calls())
	require.Equal(t, []string{"Por enquanto eu só entendo texto 🙂"}, env.messenger.sentBodies())

	stored, err := env.messages.RecentByContact(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, "[audio]", stored[0].Body)
}

func TestHandleInboundDropsDuplicateDelivery(t *testing.T) {
	env := newChatbotEnv(t)
	env.client.reply = "Olá!"

	msg := chatbot.Inbound{
		WaID:      "5511999990000",
		MessageID: "wamid.13",
		Type:      "text",
		Text:      "oi",
	}
	require.NoError(t, env.svc.HandleInbound(context.Background(), msg))
	require.NoError(t, env.svc.HandleInbound(context.Background(), msg))

	require.Equal(t, 1, env.client.calls())
	require.Len(t, env.messenger.sentBodies(), 1)
}

func TestHandleInboundModelFailureSendsApology(t *testing.T) {
	env := newChatbotEnv(t)
	env.client.err = errors.New("upstream unavailable")

	err := env.svc.HandleInbound(context.Background(), chatbot.Inbound{
		WaID:      "5511999990000",
		MessageID: "wamid.14",
		Type:      "text",
		Text:      "oi, tudo bem?",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"Desculpe, tive um problema aqui. Pode repetir?"}, env.messenger.sentBodies())

	stored, err := env.messages.RecentByContact(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, crm.DirectionOut, stored[1].Direction)
}

func TestHandleInboundIgnoresBlankText(t *testing.T) {
	env := newChatbotEnv(t)

	err := env.svc.HandleInbound(context.Background(), chatbot.Inbound{
		WaID:      "5511999990000",
		MessageID: "wamid.15",
		Type:      "text",
		Text:      "   ",
	})
	require.NoError(t, err)
	require.Zero(t, env.client.calls())
	require.Empty(t, env.messenger.sentBodies())
}

type chatbotEnv struct {
	cfg       chatbot.Config
	contacts  *chatrepo.MemoryContactRepository
	messages  *chatrepo.MemoryMessageRepository
	faqs      *faqrepo.MemoryRepository
	client    *stubChatClient
	messenger *stubMessenger
	svc       chatbot.Service
}

func newChatbotEnv(t *testing.T) *chatbotEnv {
	t.Helper()
	contacts, messages := chatrepo.NewMemoryRepositories()
	faqs := faqrepo.NewMemoryRepository()
	client := &stubChatClient{}
	messenger := &stubMessenger{}
	cfg := chatbot.Config{
		Persona:      "Você é a atendente virtual da loja, simpática e objetiva.",
		Model:        "test-model",
		HistoryLimit: 20,
		DedupTTL:     time.Minute,
	}
	ranker := faqmatch.NewRanker(faqmatch.DefaultScoring(), faqmatch.DefaultLexicon())
	svc := chatbot.NewService(cfg, contacts, messages, faqs, ranker, client, messenger, dedupstore.NewMemoryStore(), newTestLogger())
	return &chatbotEnv{
		cfg:       cfg,
		contacts:  contacts,
		messages:  messages,
		faqs:      faqs,
		client:    client,
		messenger: messenger,
		svc:       svc,
	}
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubChatClient struct {
	mu    sync.Mutex
	reply string
	err   error

	requests []groq.ChatCompletionRequest
}

func (c *stubChatClient) CreateChatCompletion(_ context.Context, req groq.ChatCompletionRequest) (groq.ChatCompletionResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	if c.err != nil {
		return groq.ChatCompletionResponse{}, c.err
	}
	var resp groq.ChatCompletionResponse
	resp.Choices = []struct {
		Message groq.Message `json:"message"`
	}{
		{Message: groq.Message{Role: "assistant", Content: c.reply}},
	}
	return resp, nil
}

func (c *stubChatClient) lastRequest() groq.ChatCompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.requests) == 0 {
		return groq.ChatCompletionRequest{}
	}
	return c.requests[len(c.requests)-1]
}

func (c *stubChatClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

type stubMessenger struct {
	mu     sync.Mutex
	bodies []string
	typing []string
}

func (m *stubMessenger) SendText(_ context.Context, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *stubMessenger) SendTypingIndicator(_ context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typing = append(m.typing, messageID)
	return nil
}

func (m *stubMessenger) sentBodies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.bodies...)
}
