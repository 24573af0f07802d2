package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mduarte/zapatende/internal/domain/crm"
)

// DashboardSummary returns the headline metrics plus the latest message.
func (h *Handler) DashboardSummary(c *gin.Context) {
	summary, err := h.crmSvc.Summary(c.Request.Context())
	if err != nil {
		abortWithError(c, fromAppError(err, "summary_failed"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DashboardConversations lists recent contacts with their message history.
func (h *Handler) DashboardConversations(c *gin.Context) {
	conversations, err := h.crmSvc.Conversations(c.Request.Context())
	if err != nil {
		abortWithError(c, fromAppError(err, "conversations_failed"))
		return
	}
	if conversations == nil {
		conversations = []crm.Conversation{}
	}
	c.JSON(http.StatusOK, gin.H{"contacts": conversations})
}

// ListFaqs returns every FAQ, newest update first.
func (h *Handler) ListFaqs(c *gin.Context) {
	faqs, err := h.crmSvc.ListFaqs(c.Request.Context())
	if err != nil {
		abortWithError(c, fromAppError(err, "faqs_failed"))
		return
	}
	if faqs == nil {
		faqs = []crm.Faq{}
	}
	c.JSON(http.StatusOK, gin.H{"faqs": faqs})
}

// CreateFaq stores a new FAQ entry.
func (h *Handler) CreateFaq(c *gin.Context) {
	var input crm.FaqInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Pergunta e resposta são obrigatórias.", err))
		return
	}
	faq, err := h.crmSvc.CreateFaq(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, fromAppError(err, "faq_create_failed"))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "FAQ criado com sucesso.",
		"faq":     faq,
	})
}

// UpdateFaq rewrites an existing FAQ entry.
func (h *Handler) UpdateFaq(c *gin.Context) {
	id, ok := pathID(c, "faqId", "ID de FAQ inválido.")
	if !ok {
		return
	}
	var input crm.FaqInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Pergunta e resposta são obrigatórias.", err))
		return
	}
	faq, err := h.crmSvc.UpdateFaq(c.Request.Context(), id, input)
	if err != nil {
		abortWithError(c, fromAppError(err, "faq_update_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "FAQ atualizado com sucesso.",
		"faq":     faq,
	})
}

// DeleteFaq removes a FAQ entry.
func (h *Handler) DeleteFaq(c *gin.Context) {
	id, ok := pathID(c, "faqId", "ID de FAQ inválido.")
	if !ok {
		return
	}
	if err := h.crmSvc.DeleteFaq(c.Request.Context(), id); err != nil {
		abortWithError(c, fromAppError(err, "faq_delete_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FAQ removido com sucesso."})
}

// DeleteMessage removes one message.
func (h *Handler) DeleteMessage(c *gin.Context) {
	id, ok := pathID(c, "messageId", "ID de mensagem inválido.")
	if !ok {
		return
	}
	if err := h.crmSvc.DeleteMessage(c.Request.Context(), id); err != nil {
		abortWithError(c, fromAppError(err, "message_delete_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mensagem removida com sucesso."})
}

// PurgeContactMessages deletes a contact's whole history, keeping the contact.
func (h *Handler) PurgeContactMessages(c *gin.Context) {
	id, ok := pathID(c, "contactId", "ID de contato inválido.")
	if !ok {
		return
	}
	count, err := h.crmSvc.DeleteContactMessages(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromAppError(err, "messages_purge_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Mensagens removidas com sucesso.",
		"deletedCount": count,
	})
}

// DeleteContact removes a contact and its messages.
func (h *Handler) DeleteContact(c *gin.Context) {
	id, ok := pathID(c, "contactId", "ID de contato inválido.")
	if !ok {
		return
	}
	if err := h.crmSvc.DeleteContact(c.Request.Context(), id); err != nil {
		abortWithError(c, fromAppError(err, "contact_delete_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contato e histórico removidos com sucesso."})
}

func pathID(c *gin.Context, param, invalidMessage string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", invalidMessage, err))
		return 0, false
	}
	return id, true
}
