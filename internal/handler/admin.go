package handler

import (
	"errors"
	"net/http"
	"time"

	"bookmap/internal/auth"
	"bookmap/internal/netutil"
	"bookmap/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin login/logout flow and session
// housekeeping.
type AdminHandler struct {
	Sessions   *auth.SessionManager
	CookieName string
}

func NewAdminHandler(sessions *auth.SessionManager, cookieName string) *AdminHandler {
	return &AdminHandler{Sessions: sessions, CookieName: cookieName}
}

type loginReq struct {
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password is required")
		return
	}

	ip := netutil.ClientIP(c.Request)

	sessionID, err := h.Sessions.Login(req.Password, ip)
	switch {
	case errors.Is(err, auth.ErrRateLimited):
		util.Error(c, http.StatusTooManyRequests, util.CodeRateLimited,
			"too many failed attempts, try again later")
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid password")
		return
	case err != nil:
		writeCoreError(c, err)
		return
	}

	h.setSessionCookie(c, sessionID, int(h.Sessions.TTL()/time.Second))

	util.Success(c, util.Response{
		"message": "logged in",
	})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.CookieName); err == nil {
		h.Sessions.Logout(sessionID)
	}
	// expire the cookie regardless; logout is idempotent
	h.setSessionCookie(c, "", -1)

	util.Success(c, util.Response{
		"message": "logged out",
	})
}

// CleanupSessions removes expired session rows. Validation already
// fails closed on expiry, so this can run on any cadence.
func (h *AdminHandler) CleanupSessions(c *gin.Context) {
	removed, err := h.Sessions.CleanupExpired()
	if err != nil {
		writeCoreError(c, err)
		return
	}
	util.Success(c, util.Response{
		"removed": removed,
	})
}

func (h *AdminHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, value, maxAge, "/", "", false, true)
}
