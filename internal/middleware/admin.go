package middleware

import (
	"net/http"

	"bookmap/internal/auth"
	"bookmap/internal/util"

	"github.com/gin-gonic/gin"
)

// RequireAdmin rejects requests without a valid admin session cookie.
// On success the session is stored in the context under "admin_session".
func RequireAdmin(sessions *auth.SessionManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "admin session required")
			c.Abort()
			return
		}

		session := sessions.Validate(sessionID)
		if session == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired or invalid")
			c.Abort()
			return
		}

		c.Set("admin_session", session)
		c.Next()
	}
}
