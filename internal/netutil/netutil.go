package netutil

import (
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP extracts the client address for rate limiting and audit.
// Behind a reverse proxy the transport peer is the proxy, so headers
// take priority: X-Forwarded-For first hop, then X-Real-IP, then the
// peer address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := fwd
		if idx := strings.Index(fwd, ","); idx >= 0 {
			first = fwd[:idx]
		}
		if ip, ok := NormalizeIP(first); ok {
			return ip
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		if ip, ok := NormalizeIP(real); ok {
			return ip
		}
	}
	ip, _ := NormalizeIP(r.RemoteAddr)
	return ip
}

// NormalizeIP takes either a bare IP string or an address that may
// include a port (e.g. "192.0.2.4:1234" or "[2001:db8::1]:443") and
// returns the canonical IP portion without zone identifiers. The
// second return value indicates whether parsing succeeded.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		addr := addrPort.Addr().WithZone("")
		if addr.IsValid() {
			return addr.String(), true
		}
	}
	if addr, err := netip.ParseAddr(raw); err == nil {
		addr = addr.WithZone("")
		if addr.IsValid() {
			return addr.String(), true
		}
	}
	return raw, false
}
