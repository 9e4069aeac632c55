package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"bookmap/internal/config"
	"bookmap/internal/models"
	"bookmap/internal/util"

	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials rejects a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRateLimited rejects a login attempt from a cooled-down IP.
	ErrRateLimited = errors.New("rate limited")
)

// SessionManager owns admin password verification and the session
// lifecycle. Session ids are opaque random tokens stored in the
// admin_sessions table; expiry is checked lazily on every validation.
type SessionManager struct {
	db           *gorm.DB
	passwordHash string
	ttl          time.Duration
	limiter      *LoginLimiter
	now          func() time.Time
}

// NewSessionManager wires a manager from admin config.
func NewSessionManager(db *gorm.DB, cfg config.AdminConfig, limiter *LoginLimiter) *SessionManager {
	hours := cfg.SessionHours
	if hours <= 0 {
		hours = 24
	}
	if cfg.PasswordHash == "" {
		log.Printf("warning: admin.password_hash is not set; all logins will be rejected")
	}
	return &SessionManager{
		db:           db,
		passwordHash: cfg.PasswordHash,
		ttl:          time.Duration(hours) * time.Hour,
		limiter:      limiter,
		now:          time.Now,
	}
}

// TTL returns the configured session lifetime (also the cookie max age).
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Login verifies the admin password and issues a session id. Returns
// ErrRateLimited when clientIP is cooling down and ErrInvalidCredentials
// on a wrong password (which also counts one failure).
func (m *SessionManager) Login(password, clientIP string) (string, error) {
	if !m.limiter.Allow(clientIP) {
		return "", ErrRateLimited
	}

	if !util.CheckPassword(password, m.passwordHash) {
		m.limiter.RecordFailure(clientIP)
		return "", ErrInvalidCredentials
	}

	m.limiter.Clear(clientIP)

	id, err := util.RandomToken(32)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	now := m.now()
	session := models.AdminSession{
		ID:           id,
		ExpiresAt:    now.Add(m.ttl),
		LastAccessed: now,
		IPAddress:    clientIP,
	}
	if err := m.db.Create(&session).Error; err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}

	return id, nil
}

// Validate returns the session for a valid id, refreshing its
// last-accessed timestamp, or nil for an absent, unknown, or expired
// id. It fails closed and never returns an error.
func (m *SessionManager) Validate(sessionID string) *models.AdminSession {
	if sessionID == "" {
		return nil
	}

	var session models.AdminSession
	err := m.db.Where("id = ? AND expires_at > ?", sessionID, m.now()).
		First(&session).Error
	if err != nil {
		return nil
	}

	session.LastAccessed = m.now()
	// best effort; a failed refresh does not invalidate the session
	_ = m.db.Model(&models.AdminSession{}).
		Where("id = ?", session.ID).
		Update("last_accessed", session.LastAccessed).Error

	return &session
}

// Logout deletes the session. Idempotent: unknown ids are not an error.
func (m *SessionManager) Logout(sessionID string) {
	if sessionID == "" {
		return
	}
	_ = m.db.Delete(&models.AdminSession{}, "id = ?", sessionID).Error
}

// CleanupExpired deletes expired session rows and reports how many
// were removed. Validation already fails closed on expiry, so this is
// housekeeping, safe to run on any cadence.
func (m *SessionManager) CleanupExpired() (int64, error) {
	res := m.db.Delete(&models.AdminSession{}, "expires_at < ?", m.now())
	if res.Error != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
