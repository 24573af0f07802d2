package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mduarte/zapatende/internal/domain/auth"
)

// Login authenticates the dashboard credential and issues the session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Usuário e senha são obrigatórios.", err))
		return
	}

	session, token, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, "auth_failed"))
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login realizado com sucesso.",
		"user": gin.H{
			"username": session.Username,
			"role":     session.Role,
		},
	})
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso."})
}

// Me returns the authenticated session, if any.
func (h *Handler) Me(c *gin.Context) {
	token, err := c.Cookie(h.cfg.Auth.CookieName)
	if err != nil || token == "" {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "Não autenticado.", nil))
		return
	}
	session, err := h.authSvc.Verify(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "Não autenticado.", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"username": session.Username,
			"role":     session.Role,
			"exp":      session.ExpiresAt.Unix(),
		},
	})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	cookie := &http.Cookie{
		Name:     h.cfg.Auth.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.cfg.Auth.CookieDomain,
		MaxAge:   int(h.cfg.Auth.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Auth.CookieSecure,
		SameSite: sameSiteMode(h.cfg.Auth.CookieSameSite),
	}
	http.SetCookie(c.Writer, cookie)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	cookie := &http.Cookie{
		Name:     h.cfg.Auth.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.cfg.Auth.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Auth.CookieSecure,
		SameSite: sameSiteMode(h.cfg.Auth.CookieSameSite),
	}
	http.SetCookie(c.Writer, cookie)
}

func sameSiteMode(value string) http.SameSite {
	switch value {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
