package netutil

import (
	"net/http/httptest"
	"testing"
)

func TestNormalizeIP(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"192.0.2.4", "192.0.2.4", true},
		{"192.0.2.4:1234", "192.0.2.4", true},
		{" 192.0.2.4 ", "192.0.2.4", true},
		{"2001:db8::1", "2001:db8::1", true},
		{"[2001:db8::1]:443", "2001:db8::1", true},
		{"not-an-ip", "not-an-ip", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeIP(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizeIP(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestClientIP_HeaderPriority(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/admin/login", nil)
	r.RemoteAddr = "10.0.0.1:5000"

	// peer only
	if got := ClientIP(r); got != "10.0.0.1" {
		t.Errorf("peer address: got %q, want 10.0.0.1", got)
	}

	// X-Real-IP beats the peer
	r.Header.Set("X-Real-IP", "203.0.113.9")
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("X-Real-IP: got %q, want 203.0.113.9", got)
	}

	// X-Forwarded-For first hop beats X-Real-IP
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.2")
	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("X-Forwarded-For: got %q, want 198.51.100.7", got)
	}
}

func TestClientIP_GarbageForwardedFallsThrough(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5000"
	r.Header.Set("X-Forwarded-For", "garbage")
	r.Header.Set("X-Real-IP", "203.0.113.9")

	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("got %q, want 203.0.113.9", got)
	}
}
