package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the peer address of the request, without port.
// Forwarding headers are ignored: the backend is served directly, so any
// X-Forwarded-For value is client-controlled and would let one caller
// spread across many rate-limit buckets.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
