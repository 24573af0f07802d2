package crm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/mduarte/zapatende/pkg/errors"
)

// Service exposes the dashboard operations.
type Service interface {
	Summary(ctx context.Context) (Summary, error)
	Conversations(ctx context.Context) ([]Conversation, error)
	ListFaqs(ctx context.Context) ([]Faq, error)
	CreateFaq(ctx context.Context, input FaqInput) (Faq, error)
	UpdateFaq(ctx context.Context, id int64, input FaqInput) (Faq, error)
	DeleteFaq(ctx context.Context, id int64) error
	DeleteMessage(ctx context.Context, id int64) error
	DeleteContactMessages(ctx context.Context, contactID int64) (int64, error)
	DeleteContact(ctx context.Context, contactID int64) error
}

// Config bounds the conversation listing.
type Config struct {
	ConversationLimit int
	MessageLimit      int
}

type service struct {
	cfg      Config
	contacts ContactRepository
	messages MessageRepository
	faqs     FaqRepository
	logger   *slog.Logger
}

// NewService wires up the CRM domain.
func NewService(cfg Config, contacts ContactRepository, messages MessageRepository, faqs FaqRepository, logger *slog.Logger) Service {
	if cfg.ConversationLimit <= 0 {
		cfg.ConversationLimit = 30
	}
	if cfg.MessageLimit <= 0 {
		cfg.MessageLimit = 20
	}
	return &service{
		cfg:      cfg,
		contacts: contacts,
		messages: messages,
		faqs:     faqs,
		logger:   logger.With("component", "crm.service"),
	}
}

func (s *service) Summary(ctx context.Context) (Summary, error) {
	contacts, err := s.contacts.Count(ctx)
	if err != nil {
		return Summary{}, apperrors.Wrap("crm_error", "failed to count contacts", err)
	}
	total, inbound, outbound, err := s.messages.Counts(ctx)
	if err != nil {
		return Summary{}, apperrors.Wrap("crm_error", "failed to count messages", err)
	}
	activeFaqs, err := s.faqs.CountActive(ctx)
	if err != nil {
		return Summary{}, apperrors.Wrap("crm_error", "failed to count faqs", err)
	}

	summary := Summary{
		Metrics: SummaryMetrics{
			Contacts:   contacts,
			Messages:   total,
			Inbound:    inbound,
			Outbound:   outbound,
			ActiveFaqs: activeFaqs,
		},
	}

	latest, found, err := s.messages.Latest(ctx)
	if err != nil {
		return Summary{}, apperrors.Wrap("crm_error", "failed to load latest message", err)
	}
	if found {
		summary.Latest = &LatestMessage{
			Body:      latest.Body,
			Direction: latest.Direction,
			Contact:   s.contactLabel(ctx, latest.ContactID),
			CreatedAt: latest.CreatedAt,
		}
	}
	return summary, nil
}

func (s *service) contactLabel(ctx context.Context, contactID int64) string {
	contact, found, err := s.contacts.Get(ctx, contactID)
	if err != nil {
		s.logger.Warn("contact lookup for summary failed", "error", err)
	}
	switch {
	case found && contact.Name != "":
		return contact.Name
	case found:
		return contact.WaID
	default:
		return "Sem nome"
	}
}

func (s *service) Conversations(ctx context.Context) ([]Conversation, error) {
	contacts, err := s.contacts.Recent(ctx, s.cfg.ConversationLimit)
	if err != nil {
		return nil, apperrors.Wrap("crm_error", "failed to list contacts", err)
	}

	conversations := make([]Conversation, 0, len(contacts))
	for _, contact := range contacts {
		messages, err := s.messages.RecentByContact(ctx, contact.ID, s.cfg.MessageLimit)
		if err != nil {
			return nil, apperrors.Wrap("crm_error", "failed to load conversation", err)
		}
		conversations = append(conversations, Conversation{
			ID:        contact.ID,
			WaID:      contact.WaID,
			Name:      contact.Name,
			CreatedAt: contact.CreatedAt,
			Messages:  messages,
		})
	}
	return conversations, nil
}

func (s *service) ListFaqs(ctx context.Context) ([]Faq, error) {
	faqs, err := s.faqs.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("crm_error", "failed to list faqs", err)
	}
	return faqs, nil
}

func (s *service) CreateFaq(ctx context.Context, input FaqInput) (Faq, error) {
	question := strings.TrimSpace(input.Question)
	answer := strings.TrimSpace(input.Answer)
	if question == "" || answer == "" {
		return Faq{}, apperrors.Wrap("invalid_input", "pergunta e resposta são obrigatórias", nil)
	}
	faq, err := s.faqs.Create(ctx, question, answer)
	if err != nil {
		if errors.Is(err, ErrDuplicateQuestion) {
			return Faq{}, apperrors.Wrap("faq_exists", "já existe um FAQ com essa pergunta", err)
		}
		return Faq{}, apperrors.Wrap("crm_error", "failed to create faq", err)
	}
	return faq, nil
}

func (s *service) UpdateFaq(ctx context.Context, id int64, input FaqInput) (Faq, error) {
	if id <= 0 {
		return Faq{}, apperrors.Wrap("invalid_input", "ID de FAQ inválido", nil)
	}
	question := strings.TrimSpace(input.Question)
	answer := strings.TrimSpace(input.Answer)
	if question == "" || answer == "" {
		return Faq{}, apperrors.Wrap("invalid_input", "pergunta e resposta são obrigatórias", nil)
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	faq, err := s.faqs.Update(ctx, id, question, answer, isActive)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateQuestion):
			return Faq{}, apperrors.Wrap("faq_exists", "já existe um FAQ com essa pergunta", err)
		case errors.Is(err, ErrNotFound):
			return Faq{}, apperrors.Wrap("not_found", "FAQ não encontrado", err)
		default:
			return Faq{}, apperrors.Wrap("crm_error", "failed to update faq", err)
		}
	}
	return faq, nil
}

func (s *service) DeleteFaq(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.Wrap("invalid_input", "ID de FAQ inválido", nil)
	}
	deleted, err := s.faqs.Delete(ctx, id)
	if err != nil {
		return apperrors.Wrap("crm_error", "failed to delete faq", err)
	}
	if !deleted {
		return apperrors.Wrap("not_found", "FAQ não encontrado", nil)
	}
	return nil
}

func (s *service) DeleteMessage(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.Wrap("invalid_input", "ID de mensagem inválido", nil)
	}
	deleted, err := s.messages.Delete(ctx, id)
	if err != nil {
		return apperrors.Wrap("crm_error", "failed to delete message", err)
	}
	if !deleted {
		return apperrors.Wrap("not_found", "mensagem não encontrada", nil)
	}
	return nil
}

func (s *service) DeleteContactMessages(ctx context.Context, contactID int64) (int64, error) {
	if contactID <= 0 {
		return 0, apperrors.Wrap("invalid_input", "ID de contato inválido", nil)
	}
	count, err := s.messages.DeleteByContact(ctx, contactID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, apperrors.Wrap("not_found", "contato não encontrado", err)
		}
		return 0, apperrors.Wrap("crm_error", "failed to purge messages", err)
	}
	return count, nil
}

func (s *service) DeleteContact(ctx context.Context, contactID int64) error {
	if contactID <= 0 {
		return apperrors.Wrap("invalid_input", "ID de contato inválido", nil)
	}
	deleted, err := s.contacts.Delete(ctx, contactID)
	if err != nil {
		return apperrors.Wrap("crm_error", "failed to delete contact", err)
	}
	if !deleted {
		return apperrors.Wrap("not_found", "contato não encontrado", nil)
	}
	return nil
}
