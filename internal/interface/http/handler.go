// Package http exposes the webhook and dashboard REST surface.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mduarte/zapatende/internal/domain/auth"
	"github.com/mduarte/zapatende/internal/domain/chatbot"
	"github.com/mduarte/zapatende/internal/domain/crm"
	"github.com/mduarte/zapatende/internal/infra/config"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc auth.Service
	crmSvc  crm.Service
	botSvc  chatbot.Service
	cfg     *config.Config
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(authSvc auth.Service, crmSvc crm.Service, botSvc chatbot.Service, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		authSvc: authSvc,
		crmSvc:  crmSvc,
		botSvc:  botSvc,
		cfg:     cfg,
		logger:  logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
