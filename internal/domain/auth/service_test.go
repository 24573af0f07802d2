package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		Username:   "admin",
		Password:   "s3nha",
		Secret:     "test-secret",
		SessionTTL: time.Hour,
	}
}

func TestLoginAndVerifyRoundTrip(t *testing.T) {
	svc := NewService(testConfig(), testLogger())

	session, token, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3nha"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}
	if session.Role != "admin" {
		t.Fatalf("expected admin role, got %q", session.Role)
	}

	verified, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verified.Username != "admin" {
		t.Fatalf("expected username admin, got %q", verified.Username)
	}
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	svc := NewService(testConfig(), testLogger())

	cases := []LoginRequest{
		{Username: "admin", Password: "errada"},
		{Username: "outro", Password: "s3nha"},
		{Username: "", Password: ""},
	}
	for _, req := range cases {
		if _, _, err := svc.Login(context.Background(), req); err == nil {
			t.Fatalf("expected login to fail for %+v", req)
		}
	}
}

func TestLoginPrefersBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("forte"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cfg := testConfig()
	cfg.PasswordHash = string(hash)

	svc := NewService(cfg, testLogger())

	if _, _, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "forte"}); err != nil {
		t.Fatalf("expected hashed login to succeed: %v", err)
	}
	// The plaintext fallback must not apply once a hash is configured.
	if _, _, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3nha"}); err == nil {
		t.Fatal("expected plaintext password to be rejected when hash is set")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTTL = -time.Minute
	svc := NewService(Config{Username: cfg.Username, Password: cfg.Password, Secret: cfg.Secret, SessionTTL: time.Nanosecond}, testLogger())

	_, token, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3nha"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := svc.Verify(context.Background(), token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	svc := NewService(testConfig(), testLogger())
	other := NewService(Config{Username: "admin", Password: "s3nha", Secret: "other-secret", SessionTTL: time.Hour}, testLogger())

	_, token, err := other.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3nha"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := svc.Verify(context.Background(), token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
