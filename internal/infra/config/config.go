package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	LLM      LLMConfig      `yaml:"llm"`
	Bot      BotConfig      `yaml:"bot"`
	Faq      FaqConfig      `yaml:"faq"`
	Auth     AuthConfig     `yaml:"auth"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// WhatsAppConfig holds Cloud API credentials for the bot's phone number.
type WhatsAppConfig struct {
	Token         string `yaml:"token"`
	PhoneNumberID string `yaml:"phoneNumberId"`
	VerifyToken   string `yaml:"verifyToken"`
	BaseURL       string `yaml:"baseUrl"`
}

// LLMConfig contains chat-completion API settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// BotConfig shapes the reply pipeline.
type BotConfig struct {
	Persona         string        `yaml:"persona"`
	HistoryLimit    int           `yaml:"historyLimit"`
	MaxPromptTokens int           `yaml:"maxPromptTokens"`
	HumanDelayMin   time.Duration `yaml:"humanDelayMin"`
	HumanDelayMax   time.Duration `yaml:"humanDelayMax"`
	DedupTTL        time.Duration `yaml:"dedupTtl"`
}

// FaqConfig tunes the lexical context ranking.
type FaqConfig struct {
	ExactBonus    int `yaml:"exactBonus"`
	ContainsBonus int `yaml:"containsBonus"`
	CoverageBonus int `yaml:"coverageBonus"`
	VariantWeight int `yaml:"variantWeight"`
	MaxEntries    int `yaml:"maxEntries"`
	MinTokenLen   int `yaml:"minTokenLen"`
}

// AuthConfig configures the single dashboard credential and its session
// cookie. PasswordHash (bcrypt) wins over Password when both are set.
type AuthConfig struct {
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	PasswordHash   string        `yaml:"passwordHash"`
	SessionSecret  string        `yaml:"sessionSecret"`
	SessionTTL     time.Duration `yaml:"sessionTtl"`
	CookieName     string        `yaml:"cookieName"`
	CookieDomain   string        `yaml:"cookieDomain"`
	CookieSameSite string        `yaml:"cookieSameSite"`
	CookieSecure   bool          `yaml:"cookieSecure"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the dedup store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("WHATSAPP_TOKEN"); v != "" {
		cfg.WhatsApp.Token = v
	}
	if v := os.Getenv("WHATSAPP_PHONE_NUMBER_ID"); v != "" {
		cfg.WhatsApp.PhoneNumberID = v
	}
	if v := os.Getenv("WEBHOOK_VERIFY_TOKEN"); v != "" {
		cfg.WhatsApp.VerifyToken = v
	}
	if v := os.Getenv("WHATSAPP_BASE_URL"); v != "" {
		cfg.WhatsApp.BaseURL = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("BOT_PERSONA"); v != "" {
		cfg.Bot.Persona = v
	}
	if v := os.Getenv("BOT_HISTORY_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Bot.HistoryLimit = parsed
		}
	}
	if v := os.Getenv("BOT_MAX_PROMPT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Bot.MaxPromptTokens = parsed
		}
	}
	if v := os.Getenv("HUMAN_DELAY_MIN"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Bot.HumanDelayMin = parsed
		}
	}
	if v := os.Getenv("HUMAN_DELAY_MAX"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Bot.HumanDelayMax = parsed
		}
	}
	if v := os.Getenv("BOT_DEDUP_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Bot.DedupTTL = parsed
		}
	}
	if v := os.Getenv("FAQ_MAX_ENTRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Faq.MaxEntries = parsed
		}
	}
	if v := os.Getenv("DASHBOARD_USER"); v != "" {
		cfg.Auth.Username = v
	}
	if v := os.Getenv("DASHBOARD_PASS"); v != "" {
		cfg.Auth.Password = v
	}
	if v := os.Getenv("DASHBOARD_PASS_HASH"); v != "" {
		cfg.Auth.PasswordHash = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.SessionTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_COOKIE_NAME"); v != "" {
		cfg.Auth.CookieName = v
	}
	if v := os.Getenv("COOKIE_DOMAIN"); v != "" {
		cfg.Auth.CookieDomain = v
	}
	if v := os.Getenv("COOKIE_SAMESITE"); v != "" {
		cfg.Auth.CookieSameSite = strings.ToLower(v)
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.Auth.CookieSecure = parseBool(v)
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             40,
			},
		},
		LLM: LLMConfig{
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.7,
		},
		Bot: BotConfig{
			HistoryLimit:    20,
			MaxPromptTokens: 6000,
			HumanDelayMin:   1200 * time.Millisecond,
			HumanDelayMax:   6500 * time.Millisecond,
			DedupTTL:        24 * time.Hour,
		},
		Faq: FaqConfig{
			ExactBonus:    6,
			ContainsBonus: 4,
			CoverageBonus: 2,
			VariantWeight: 3,
			MaxEntries:    5,
			MinTokenLen:   3,
		},
		Auth: AuthConfig{
			SessionTTL:     7 * 24 * time.Hour,
			CookieName:     "ia_sg_auth",
			CookieSameSite: "lax",
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Valkey: ValkeyConfig{
			Enabled: false,
			Addr:    "",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Bot.HistoryLimit <= 0 {
		return errors.New("bot.historyLimit must be positive")
	}
	if c.Bot.HumanDelayMin < 0 || c.Bot.HumanDelayMax < 0 {
		return errors.New("bot delay bounds cannot be negative")
	}
	if c.Bot.HumanDelayMax < c.Bot.HumanDelayMin {
		return errors.New("bot.humanDelayMax cannot be below bot.humanDelayMin")
	}
	if c.Bot.DedupTTL <= 0 {
		return errors.New("bot.dedupTtl must be positive")
	}
	if c.Faq.MaxEntries <= 0 {
		return errors.New("faq.maxEntries must be positive")
	}
	if c.Faq.MinTokenLen <= 0 {
		return errors.New("faq.minTokenLen must be positive")
	}
	if c.Faq.VariantWeight <= 0 {
		return errors.New("faq.variantWeight must be positive")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.sessionTtl must be positive")
	}
	if c.Auth.CookieName == "" {
		return errors.New("auth.cookieName cannot be empty")
	}
	switch c.Auth.CookieSameSite {
	case "lax", "strict", "none":
	default:
		return errors.New("auth.cookieSameSite must be lax, strict or none")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	return nil
}
