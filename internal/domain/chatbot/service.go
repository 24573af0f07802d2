// Package chatbot orchestrates one inbound WhatsApp message end to end:
// persistence, FAQ grounding, the model call and the humanized outbound send.
package chatbot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mduarte/zapatende/internal/domain/crm"
	"github.com/mduarte/zapatende/internal/domain/faqmatch"
	"github.com/mduarte/zapatende/internal/infra/llm/groq"
	apperrors "github.com/mduarte/zapatende/pkg/errors"
)

const typingKeepalive = 20 * time.Second

// Service handles inbound webhook messages.
type Service interface {
	HandleInbound(ctx context.Context, msg Inbound) error
}

type service struct {
	cfg       Config
	contacts  crm.ContactRepository
	messages  crm.MessageRepository
	faqs      crm.FaqRepository
	ranker    *faqmatch.Ranker
	client    ChatClient
	messenger Messenger
	dedup     DedupStore
	counter   tokenCounter
	logger    *slog.Logger
}

// NewService wires up the chatbot domain.
func NewService(
	cfg Config,
	contacts crm.ContactRepository,
	messages crm.MessageRepository,
	faqs crm.FaqRepository,
	ranker *faqmatch.Ranker,
	client ChatClient,
	messenger Messenger,
	dedup DedupStore,
	logger *slog.Logger,
) Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	if cfg.DedupTTL <= 0 {
		cfg.DedupTTL = 24 * time.Hour
	}
	return &service{
		cfg:       cfg,
		contacts:  contacts,
		messages:  messages,
		faqs:      faqs,
		ranker:    ranker,
		client:    client,
		messenger: messenger,
		dedup:     dedup,
		logger:    logger.With("component", "chatbot.service"),
	}
}

func (s *service) HandleInbound(ctx context.Context, msg Inbound) error {
	if strings.TrimSpace(msg.WaID) == "" {
		return nil
	}

	if msg.MessageID != "" {
		fresh, err := s.dedup.MarkProcessed(ctx, msg.MessageID, s.cfg.DedupTTL)
		if err != nil {
			s.logger.Warn("dedup check failed, continuing", "error", err)
		} else if !fresh {
			s.logger.Debug("duplicate webhook delivery dropped", "wa_message_id", msg.MessageID)
			return nil
		}
	}

	contact, err := s.contacts.Upsert(ctx, msg.WaID, strings.TrimSpace(msg.ProfileName))
	if err != nil {
		return apperrors.Wrap("chatbot_error", "failed to upsert contact", err)
	}

	if msg.Type != "text" {
		return s.handleNonText(ctx, contact, msg)
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	_, err = s.messages.Insert(ctx, crm.Message{
		ContactID:   contact.ID,
		Direction:   crm.DirectionIn,
		Body:        msg.Text,
		WaMessageID: msg.MessageID,
	})
	if err != nil {
		if errors.Is(err, crm.ErrDuplicateMessage) {
			return nil
		}
		return apperrors.Wrap("chatbot_error", "failed to persist inbound message", err)
	}

	history, err := s.loadHistory(ctx, contact.ID)
	if err != nil {
		return apperrors.Wrap("chatbot_error", "failed to load history", err)
	}

	faqContext := s.faqContext(ctx, msg.Text)

	reply := s.generateReply(ctx, history, faqContext, msg.MessageID)

	wait(ctx, humanDelay(s.cfg, reply))

	if err := s.messenger.SendText(ctx, msg.WaID, reply); err != nil {
		return apperrors.Wrap("whatsapp_error", "failed to send reply", err)
	}
	if _, err := s.messages.Insert(ctx, crm.Message{
		ContactID: contact.ID,
		Direction: crm.DirectionOut,
		Body:      reply,
	}); err != nil {
		return apperrors.Wrap("chatbot_error", "failed to persist outbound message", err)
	}
	return nil
}

func (s *service) handleNonText(ctx context.Context, contact crm.Contact, msg Inbound) error {
	_, err := s.messages.Insert(ctx, crm.Message{
		ContactID:   contact.ID,
		Direction:   crm.DirectionIn,
		Body:        "[" + msg.Type + "]",
		WaMessageID: msg.MessageID,
	})
	if err != nil && !errors.Is(err, crm.ErrDuplicateMessage) {
		return apperrors.Wrap("chatbot_error", "failed to persist non-text message", err)
	}

	if err := s.messenger.SendText(ctx, msg.WaID, textOnlyNotice); err != nil {
		return apperrors.Wrap("whatsapp_error", "failed to send text-only notice", err)
	}
	if _, err := s.messages.Insert(ctx, crm.Message{
		ContactID: contact.ID,
		Direction: crm.DirectionOut,
		Body:      textOnlyNotice,
	}); err != nil {
		return apperrors.Wrap("chatbot_error", "failed to persist notice", err)
	}
	return nil
}

// loadHistory maps the newest persisted messages, oldest first, onto chat
// roles. The inbound message being handled is already persisted and is the
// last element.
func (s *service) loadHistory(ctx context.Context, contactID int64) ([]groq.Message, error) {
	rows, err := s.messages.RecentByContact(ctx, contactID, s.cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}
	history := make([]groq.Message, 0, len(rows))
	for _, row := range rows {
		role := "assistant"
		if row.Direction == crm.DirectionIn {
			role = "user"
		}
		history = append(history, groq.Message{Role: role, Content: row.Body})
	}
	return history, nil
}

// faqContext ranks the active FAQ entries against the inbound text. A failed
// FAQ read is not fatal; the reply proceeds without grounding.
func (s *service) faqContext(ctx context.Context, input string) string {
	faqs, err := s.faqs.ListActive(ctx)
	if err != nil {
		s.logger.Warn("active faq fetch failed, replying without context", "error", err)
		return ""
	}
	entries := make([]faqmatch.Entry, 0, len(faqs))
	for _, faq := range faqs {
		entries = append(entries, faqmatch.Entry{Question: faq.Question, Answer: faq.Answer})
	}
	return s.ranker.Context(entries, input)
}

// generateReply runs the model call while keeping the typing indicator alive.
// Model failures degrade to a fixed apology instead of silence.
func (s *service) generateReply(ctx context.Context, history []groq.Message, faqContext, waMessageID string) string {
	stopTyping := s.keepTyping(ctx, waMessageID)
	defer stopTyping()

	system := s.systemMessages(faqContext)
	trimmed := s.counter.trimToBudget(system, history, s.cfg.MaxPromptTokens)

	resp, err := s.client.CreateChatCompletion(ctx, groq.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    append(system, trimmed...),
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Error("chat completion failed", "error", err)
		return errorFallback
	}
	if !resp.Usage.IsZero() {
		s.logger.Info("chat completion usage",
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens)
	}
	if len(resp.Choices) == 0 {
		return emptyFallback
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return emptyFallback
	}
	return reply
}

func (s *service) systemMessages(faqContext string) []groq.Message {
	messages := []groq.Message{{Role: "system", Content: s.cfg.Persona}}
	rule := noContextRule
	if strings.TrimSpace(faqContext) != "" {
		rule = formatFaqRule(faqContext)
	}
	return append(messages, groq.Message{Role: "system", Content: rule})
}

// keepTyping marks the message read immediately and refreshes the typing
// indicator until the returned stop function runs.
func (s *service) keepTyping(ctx context.Context, waMessageID string) func() {
	if waMessageID == "" {
		return func() {}
	}
	if err := s.messenger.SendTypingIndicator(ctx, waMessageID); err != nil {
		s.logger.Warn("typing indicator failed", "error", err)
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(typingKeepalive)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.messenger.SendTypingIndicator(ctx, waMessageID); err != nil {
					s.logger.Warn("typing indicator failed", "error", err)
				}
			}
		}
	}()
	return func() { close(done) }
}
