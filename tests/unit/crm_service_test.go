package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mduarte/zapatende/internal/domain/crm"
	"github.com/mduarte/zapatende/internal/infra/chatrepo"
	"github.com/mduarte/zapatende/internal/infra/faqrepo"
	apperrors "github.com/mduarte/zapatende/pkg/errors"
)

func TestSummaryAggregatesCounters(t *testing.T) {
	env := newCrmEnv(t)
	ctx := context.Background()

	contact, err := env.contacts.Upsert(ctx, "5511999990000", "Maria")
	require.NoError(t, err)
	seedMessage(t, env.messages, contact.ID, crm.DirectionIn, "oi")
	seedMessage(t, env.messages, contact.ID, crm.DirectionOut, "Olá, Maria!")
	seedMessage(t, env.messages, contact.ID, crm.DirectionIn, "qual o prazo de entrega?")

	_, err = env.faqs.Create(ctx, "Prazo de entrega", "Até 5 dias úteis.")
	require.NoError(t, err)

	summary, err := env.svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), summary.Metrics.Contacts)
	require.Equal(t, int64(3), summary.Metrics.Messages)
	require.Equal(t, int64(2), summary.Metrics.Inbound)
	require.Equal(t, int64(1), summary.Metrics.Outbound)
	require.Equal(t, int64(1), summary.Metrics.ActiveFaqs)

	require.NotNil(t, summary.Latest)
	require.Equal(t, "qual o prazo de entrega?", summary.Latest.Body)
	require.Equal(t, "Maria", summary.Latest.Contact)
}

func TestSummaryLabelsUnnamedContactByWaID(t *testing.T) {
	env := newCrmEnv(t)
	ctx := context.Background()

	contact, err := env.contacts.Upsert(ctx, "5511888880000", "")
	require.NoError(t, err)
	seedMessage(t, env.messages, contact.ID, crm.DirectionIn, "oi")

	summary, err := env.svc.Summary(ctx)
	require.NoError(t, err)
	require.NotNil(t, summary.Latest)
	require.Equal(t, "5511888880000", summary.Latest.Contact)
}

func TestConversationsListMessagesOldestFirst(t *testing.T) {
	env := newCrmEnv(t)
	ctx := context.Background()

	contact, err := env.contacts.Upsert(ctx, "5511999990000", "Maria")
	require.NoError(t, err)
	seedMessage(t, env.messages, contact.ID, crm.DirectionIn, "primeira")
	seedMessage(t, env.messages, contact.ID, crm.DirectionOut, "segunda")

	conversations, err := env.svc.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.Equal(t, "5511999990000", conversations[0].WaID)
	require.Len(t, conversations[0].Messages, 2)
	require.Equal(t, "primeira", conversations[0].Messages[0].Body)
	require.Equal(t, "segunda", conversations[0].Messages[1].Body)
}

func TestCreateFaqValidation(t *testing.T) {
	env := newCrmEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateFaq(ctx, crm.FaqInput{Question: "  ", Answer: ""})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = env.svc.CreateFaq(ctx, crm.FaqInput{Question: "Horário?", Answer: "9h às 18h"})
	require.NoError(t, err)

	_, err = env.svc.CreateFaq(ctx, crm.FaqInput{Question: "Horário?", Answer: "outro texto"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "faq_exists"))
}

func TestUpdateFaqNotFound(t *testing.T) {
	env := newCrmEnv(t)

	_, err := env.svc.UpdateFaq(context.Background(), 42, crm.FaqInput{Question: "Q", Answer: "A"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestDeleteFaqToggleLifecycle(t *testing.T) {
	env := newCrmEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateFaq(ctx, crm.FaqInput{Question: "Frete?", Answer: "Grátis acima de R$200"})
	require.NoError(t, err)
	require.True(t, created.IsActive)

	inactive := false
	updated, err := env.svc.UpdateFaq(ctx, created.ID, crm.FaqInput{Question: "Frete?", Answer: "Grátis acima de R$200", IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)

	require.NoError(t, env.svc.DeleteFaq(ctx, created.ID))
	err = env.svc.DeleteFaq(ctx, created.ID)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestDeleteContactMessagesRequiresContact(t *testing.T) {
	env := newCrmEnv(t)
	ctx := context.Background()

	_, err := env.svc.DeleteContactMessages(ctx, 99)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "not_found"))

	contact, err := env.contacts.Upsert(ctx, "5511999990000", "Maria")
	require.NoError(t, err)
	seedMessage(t, env.messages, contact.ID, crm.DirectionIn, "oi")
	seedMessage(t, env.messages, contact.ID, crm.DirectionOut, "olá")

	count, err := env.svc.DeleteContactMessages(ctx, contact.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestDeleteContactCascades(t *testing.T) {
	env := newCrmEnv(t)
	ctx := context.Background()

	contact, err := env.contacts.Upsert(ctx, "5511999990000", "Maria")
	require.NoError(t, err)
	seedMessage(t, env.messages, contact.ID, crm.DirectionIn, "oi")

	require.NoError(t, env.svc.DeleteContact(ctx, contact.ID))

	total, _, _, err := env.messages.Counts(ctx)
	require.NoError(t, err)
	require.Zero(t, total)

	err = env.svc.DeleteContact(ctx, contact.ID)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

type crmEnv struct {
	contacts *chatrepo.MemoryContactRepository
	messages *chatrepo.MemoryMessageRepository
	faqs     *faqrepo.MemoryRepository
	svc      crm.Service
}

func newCrmEnv(t *testing.T) *crmEnv {
	t.Helper()
	contacts, messages := chatrepo.NewMemoryRepositories()
	faqs := faqrepo.NewMemoryRepository()
	svc := crm.NewService(crm.Config{}, contacts, messages, faqs, newTestLogger())
	return &crmEnv{contacts: contacts, messages: messages, faqs: faqs, svc: svc}
}

func seedMessage(t *testing.T, repo *chatrepo.MemoryMessageRepository, contactID int64, direction, body string) {
	t.Helper()
	_, err := repo.Insert(context.Background(), crm.Message{
		ContactID: contactID,
		Direction: direction,
		Body:      body,
	})
	require.NoError(t, err)
}
