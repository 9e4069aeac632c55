package auth

import (
	"sync"
	"time"
)

// LoginLimiter counts consecutive failed login attempts per client IP.
// Once an IP reaches the threshold, every attempt from it is refused
// until the cooldown window (started at the first failure) elapses.
// A successful login clears the counter immediately, including
// mid-cooldown. The limiter is an injected value, not a global, so
// tests can construct and inspect their own.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord

	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

type attemptRecord struct {
	count   int
	resetAt time.Time
}

// NewLoginLimiter builds a limiter. Non-positive arguments fall back
// to 5 attempts per 15 minutes.
func NewLoginLimiter(threshold int, cooldown time.Duration) *LoginLimiter {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 15 * time.Minute
	}
	return &LoginLimiter{
		attempts:  make(map[string]*attemptRecord),
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether ip may attempt a login right now.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked()

	rec, ok := l.attempts[ip]
	if !ok {
		return true
	}
	return rec.count < l.threshold
}

// RecordFailure counts one failed attempt for ip. The cooldown window
// starts at the first failure; a failure after the window expired
// starts a fresh one.
func (l *LoginLimiter) RecordFailure(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.attempts[ip]
	if !ok || !rec.resetAt.After(now) {
		rec = &attemptRecord{resetAt: now.Add(l.cooldown)}
		l.attempts[ip] = rec
	}
	rec.count++
}

// Clear forgets all failures for ip (successful login).
func (l *LoginLimiter) Clear(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, ip)
}

// Failures returns the current failure count for ip.
func (l *LoginLimiter) Failures(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked()

	if rec, ok := l.attempts[ip]; ok {
		return rec.count
	}
	return 0
}

// pruneLocked drops records whose cooldown window has elapsed.
// Callers must hold l.mu.
func (l *LoginLimiter) pruneLocked() {
	now := l.now()
	for ip, rec := range l.attempts {
		if !rec.resetAt.After(now) {
			delete(l.attempts, ip)
		}
	}
}
