package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/mduarte/zapatende/internal/domain/auth"
	"github.com/mduarte/zapatende/internal/domain/chatbot"
	"github.com/mduarte/zapatende/internal/domain/crm"
	"github.com/mduarte/zapatende/internal/domain/faqmatch"
	"github.com/mduarte/zapatende/internal/infra/chatrepo"
	"github.com/mduarte/zapatende/internal/infra/config"
	"github.com/mduarte/zapatende/internal/infra/dedupstore"
	"github.com/mduarte/zapatende/internal/infra/faqrepo"
	"github.com/mduarte/zapatende/internal/infra/llm/groq"
	"github.com/mduarte/zapatende/internal/infra/whatsapp"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Username:     cfg.Auth.Username,
		Password:     cfg.Auth.Password,
		PasswordHash: cfg.Auth.PasswordHash,
		Secret:       cfg.Auth.SessionSecret,
		SessionTTL:   cfg.Auth.SessionTTL,
		Cookie: auth.CookieConfig{
			Name:     cfg.Auth.CookieName,
			Domain:   cfg.Auth.CookieDomain,
			SameSite: cfg.Auth.CookieSameSite,
			Secure:   cfg.Auth.CookieSecure,
		},
	}
}

func provideCrmConfig(cfg *config.Config) crm.Config {
	return crm.Config{
		MessageLimit: cfg.Bot.HistoryLimit,
	}
}

func provideBotConfig(cfg *config.Config) chatbot.Config {
	return chatbot.Config{
		Persona:         cfg.Bot.Persona,
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		HistoryLimit:    cfg.Bot.HistoryLimit,
		MaxPromptTokens: cfg.Bot.MaxPromptTokens,
		HumanDelayMin:   cfg.Bot.HumanDelayMin,
		HumanDelayMax:   cfg.Bot.HumanDelayMax,
		DedupTTL:        cfg.Bot.DedupTTL,
	}
}

func provideRanker(cfg *config.Config) *faqmatch.Ranker {
	return faqmatch.NewRanker(faqmatch.Scoring{
		ExactBonus:    cfg.Faq.ExactBonus,
		ContainsBonus: cfg.Faq.ContainsBonus,
		CoverageBonus: cfg.Faq.CoverageBonus,
		VariantWeight: cfg.Faq.VariantWeight,
		MaxEntries:    cfg.Faq.MaxEntries,
		MinTokenLen:   cfg.Faq.MinTokenLen,
	}, faqmatch.DefaultLexicon())
}

func provideGroqClient(cfg *config.Config) (*groq.Client, error) {
	return groq.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideWhatsAppClient(cfg *config.Config) (*whatsapp.Client, error) {
	return whatsapp.NewClient(cfg.WhatsApp.Token, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.BaseURL)
}

// provideRepositories opens one Postgres pool shared by the contact, message
// and FAQ repositories, falling back to the linked in-memory set when the
// database is unavailable.
func provideRepositories(cfg *config.Config, logger *slog.Logger) (crm.ContactRepository, crm.MessageRepository, crm.FaqRepository) {
	pool := providePgPool(cfg, logger)
	if pool == nil {
		contacts, messages := chatrepo.NewMemoryRepositories()
		return contacts, messages, faqrepo.NewMemoryRepository()
	}
	return chatrepo.NewPostgresContactRepository(pool),
		chatrepo.NewPostgresMessageRepository(pool),
		faqrepo.NewPostgresRepository(pool)
}

func providePgPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideDedupStore(cfg *config.Config, logger *slog.Logger) chatbot.DedupStore {
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory dedup", "error", err)
			return dedupstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory dedup", "error", err)
			return dedupstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory dedup", "error", err)
		} else {
			logger.Info("valkey dedup store enabled", "addr", cfg.Valkey.Addr)
			return dedupstore.NewValkeyStore(client, "wamsg")
		}
	}
	return dedupstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
