// Package httputil holds small HTTP helpers shared by the server layer.
package httputil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client IP address from the request. When trustProxy
// is true, proxy-advertised headers are consulted before RemoteAddr. Only
// enable trustProxy when the server sits behind a trusted reverse proxy,
// since the headers are trivially spoofable otherwise.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := forwardedClient(r.Header); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// forwardedClient returns the original client IP advertised by a reverse
// proxy, or "" when none is present. X-Forwarded-For wins over X-Real-IP;
// its leftmost entry is the original client.
func forwardedClient(h http.Header) string {
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return strings.TrimSpace(h.Get("X-Real-IP"))
}
