package auth

import "time"

// Config drives dashboard session behavior. Exactly one admin credential is
// configured; PasswordHash (bcrypt) wins over the plaintext Password when
// both are set.
type Config struct {
	Username     string
	Password     string
	PasswordHash string
	Secret       string
	SessionTTL   time.Duration
	Cookie       CookieConfig
}

// CookieConfig shapes the session cookie attributes.
type CookieConfig struct {
	Name     string
	Domain   string
	SameSite string
	Secure   bool
}

// LoginRequest captures the dashboard login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session describes an authenticated dashboard user.
type Session struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"exp"`
}
