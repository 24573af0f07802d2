package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mduarte/zapatende/internal/domain/chatbot"
)

// processTimeout bounds one asynchronous webhook pipeline run. It has to
// cover the model call plus the humanized send delay.
const processTimeout = 2 * time.Minute

type webhookPayload struct {
	Entry []webhookEntry `json:"entry"`
}

type webhookEntry struct {
	Changes []webhookChange `json:"changes"`
}

type webhookChange struct {
	Value webhookValue `json:"value"`
}

type webhookValue struct {
	Contacts []webhookContact `json:"contacts"`
	Messages []webhookMessage `json:"messages"`
}

type webhookContact struct {
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type webhookMessage struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// VerifyWebhook answers the Cloud API subscription handshake.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.cfg.WhatsApp.VerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// ReceiveWebhook acks the delivery immediately and processes the message in
// the background, so Cloud API retries are driven by the dedup store rather
// than by slow responses.
func (h *Handler) ReceiveWebhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		// Malformed deliveries are acked too; there is nothing to retry.
		h.logger.Warn("unreadable webhook payload", "error", err)
		c.Status(http.StatusOK)
		return
	}
	c.Status(http.StatusOK)

	inbound, ok := extractInbound(payload)
	if !ok {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		if err := h.botSvc.HandleInbound(ctx, inbound); err != nil {
			h.logger.Error("webhook processing failed", "wa_id", inbound.WaID, "error", err)
		}
	}()
}

func extractInbound(payload webhookPayload) (chatbot.Inbound, bool) {
	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return chatbot.Inbound{}, false
	}
	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return chatbot.Inbound{}, false
	}
	msg := value.Messages[0]

	var profileName string
	if len(value.Contacts) > 0 {
		profileName = value.Contacts[0].Profile.Name
	}
	return chatbot.Inbound{
		WaID:        msg.From,
		MessageID:   msg.ID,
		ProfileName: profileName,
		Type:        msg.Type,
		Text:        msg.Text.Body,
	}, true
}
