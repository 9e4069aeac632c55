package auth

import (
	"errors"
	"testing"
	"time"

	"bookmap/internal/config"
	"bookmap/internal/models"
	"bookmap/internal/util"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "correct horse battery staple"

func newTestManager(t *testing.T) (*SessionManager, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.AdminSession{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hash, err := util.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	limiter := NewLoginLimiter(5, 15*time.Minute)
	m := NewSessionManager(db, config.AdminConfig{
		PasswordHash: hash,
		SessionHours: 24,
	}, limiter)
	return m, db
}

func TestLoginIssuesSession(t *testing.T) {
	m, db := newTestManager(t)

	id, err := m.Login(testPassword, "1.2.3.4")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(id) != 43 {
		t.Errorf("expected a 32-byte urlsafe token, got %d chars", len(id))
	}

	var session models.AdminSession
	if err := db.First(&session, "id = ?", id).Error; err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if session.IPAddress != "1.2.3.4" {
		t.Errorf("ip not recorded: %q", session.IPAddress)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("expiry not ~24h out: %v", ttl)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Login("nope", "1.2.3.4")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := m.limiter.Failures("1.2.3.4"); got != 1 {
		t.Errorf("failure not recorded, got %d", got)
	}
}

func TestLoginRateLimited(t *testing.T) {
	m, _ := newTestManager(t)

	for i := 0; i < 5; i++ {
		if _, err := m.Login("wrong", "1.2.3.4"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// 6th attempt with the CORRECT password is still refused
	if _, err := m.Login(testPassword, "1.2.3.4"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestLoginSuccessClearsCounter(t *testing.T) {
	m, _ := newTestManager(t)

	for i := 0; i < 3; i++ {
		m.Login("wrong", "1.2.3.4")
	}
	if _, err := m.Login(testPassword, "1.2.3.4"); err != nil {
		t.Fatalf("login after 3 failures should succeed: %v", err)
	}

	// counter was cleared by the success
	m.Login("wrong", "1.2.3.4")
	if got := m.limiter.Failures("1.2.3.4"); got != 1 {
		t.Errorf("expected counter restart at 1, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	m, _ := newTestManager(t)

	id, err := m.Login(testPassword, "1.2.3.4")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	session := m.Validate(id)
	if session == nil {
		t.Fatal("valid session rejected")
	}

	// fails closed
	if m.Validate("") != nil {
		t.Error("empty id should be anonymous")
	}
	if m.Validate("unknown-session-id") != nil {
		t.Error("unknown id should be anonymous")
	}
}

func TestValidateRefreshesLastAccessed(t *testing.T) {
	m, db := newTestManager(t)

	id, _ := m.Login(testPassword, "1.2.3.4")

	var before models.AdminSession
	db.First(&before, "id = ?", id)

	later := time.Now().Add(time.Hour)
	m.now = func() time.Time { return later }

	if m.Validate(id) == nil {
		t.Fatal("session should still be valid")
	}

	var after models.AdminSession
	db.First(&after, "id = ?", id)
	if !after.LastAccessed.After(before.LastAccessed) {
		t.Error("last_accessed not refreshed")
	}
}

func TestValidateExpiredSession(t *testing.T) {
	m, _ := newTestManager(t)

	id, _ := m.Login(testPassword, "1.2.3.4")

	m.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	if m.Validate(id) != nil {
		t.Error("expired session should be anonymous")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	m, db := newTestManager(t)

	id, _ := m.Login(testPassword, "1.2.3.4")

	m.Logout(id)
	if m.Validate(id) != nil {
		t.Error("logged-out session should be anonymous")
	}

	// twice, and with garbage: no panic, no error
	m.Logout(id)
	m.Logout("never-existed")

	var count int64
	db.Model(&models.AdminSession{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no session rows, got %d", count)
	}
}

func TestCleanupExpired(t *testing.T) {
	m, db := newTestManager(t)

	m.Login(testPassword, "1.1.1.1")
	m.Login(testPassword, "2.2.2.2")

	// expire one of them manually
	var sessions []models.AdminSession
	db.Find(&sessions)
	db.Model(&models.AdminSession{}).
		Where("id = ?", sessions[0].ID).
		Update("expires_at", time.Now().Add(-time.Hour))

	removed, err := m.CleanupExpired()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	var count int64
	db.Model(&models.AdminSession{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 remaining, got %d", count)
	}
}
