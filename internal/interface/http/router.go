package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mduarte/zapatende/internal/domain/auth"
	"github.com/mduarte/zapatende/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
		errorHandlingMiddleware(logger),
	)

	// Meta registers the webhook either at the root path or under /api
	// depending on the configured callback URL; serve both.
	for _, path := range []string{"/webhook", "/api/webhook"} {
		router.GET(path, handler.VerifyWebhook)
		router.POST(path, handler.ReceiveWebhook)
	}

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/logout", handler.Logout)
		api.GET("/auth/me", handler.Me)

		dashboard := api.Group("/dashboard", sessionMiddleware(authSvc, cfg.Auth.CookieName))
		{
			dashboard.GET("/summary", handler.DashboardSummary)
			dashboard.GET("/conversations", handler.DashboardConversations)
			dashboard.GET("/faqs", handler.ListFaqs)
			dashboard.POST("/faqs", handler.CreateFaq)
			dashboard.PUT("/faqs/:faqId", handler.UpdateFaq)
			dashboard.DELETE("/faqs/:faqId", handler.DeleteFaq)
			dashboard.DELETE("/messages/:messageId", handler.DeleteMessage)
			dashboard.DELETE("/contacts/:contactId/messages", handler.PurgeContactMessages)
			dashboard.DELETE("/contacts/:contactId", handler.DeleteContact)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
