package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mduarte/zapatende/internal/domain/auth"
)

const sessionKey = "dashboard_session"

// sessionMiddleware guards the dashboard routes. The session token travels
// in an HttpOnly cookie rather than an Authorization header.
func sessionMiddleware(svc auth.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "Não autenticado.", nil))
			return
		}
		session, err := svc.Verify(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "Não autenticado.", err))
			return
		}
		setSession(c, session)
		c.Next()
	}
}

func setSession(c *gin.Context, session auth.Session) {
	c.Set(sessionKey, session)
}

func getSession(c *gin.Context) (auth.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, false
	}
	session, ok := value.(auth.Session)
	return session, ok
}
