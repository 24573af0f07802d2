//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/mduarte/zapatende/internal/bootstrap"
	"github.com/mduarte/zapatende/internal/domain/auth"
	"github.com/mduarte/zapatende/internal/domain/chatbot"
	"github.com/mduarte/zapatende/internal/domain/crm"
	"github.com/mduarte/zapatende/internal/infra/config"
	"github.com/mduarte/zapatende/internal/infra/llm/groq"
	"github.com/mduarte/zapatende/internal/infra/whatsapp"
	httpiface "github.com/mduarte/zapatende/internal/interface/http"
	"github.com/mduarte/zapatende/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideCrmConfig,
		provideBotConfig,
		provideRanker,
		provideGroqClient,
		provideWhatsAppClient,
		provideRepositories,
		provideDedupStore,
		auth.NewService,
		crm.NewService,
		chatbot.NewService,
		wire.Bind(new(chatbot.ChatClient), new(*groq.Client)),
		wire.Bind(new(chatbot.Messenger), new(*whatsapp.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
