package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/mduarte/zapatende/pkg/errors"
	"github.com/mduarte/zapatende/pkg/util"
)

const roleAdmin = "admin"

// Service exposes dashboard session workflows.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (Session, string, error)
	Verify(ctx context.Context, token string) (Session, error)
}

type service struct {
	cfg    Config
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	return &service{
		cfg:    cfg,
		logger: logger.With("component", "auth.service"),
	}
}

// Login validates the configured admin credential and returns the session
// plus its signed token.
func (s *service) Login(_ context.Context, req LoginRequest) (Session, string, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return Session{}, "", apperrors.Wrap("invalid_input", "usuário e senha são obrigatórios", nil)
	}
	if !s.credentialsMatch(username, req.Password) {
		return Session{}, "", apperrors.Wrap("invalid_credentials", "credenciais inválidas", nil)
	}

	session := Session{
		Username:  username,
		Role:      roleAdmin,
		ExpiresAt: util.NowUTC().Add(s.cfg.SessionTTL),
	}
	token, err := s.sign(session)
	if err != nil {
		return Session{}, "", apperrors.Wrap("auth_error", "failed to sign session", err)
	}
	return session, token, nil
}

// Verify parses and validates a session token.
func (s *service) Verify(_ context.Context, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, apperrors.Wrap("invalid_token", "token missing", nil)
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, apperrors.Wrap("invalid_token", "invalid session token", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return Session{}, apperrors.Wrap("invalid_token", "malformed session claims", nil)
	}
	return Session{
		Username:  claims.Subject,
		Role:      roleAdmin,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *service) credentialsMatch(username, password string) bool {
	if s.cfg.Username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1

	if s.cfg.PasswordHash != "" {
		return userOK && bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)) == nil
	}
	if s.cfg.Password == "" {
		return false
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	return userOK && passOK
}

func (s *service) sign(session Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   session.Username,
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(util.NowUTC()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}
