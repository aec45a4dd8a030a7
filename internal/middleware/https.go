// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ForceHTTPS returns a wrapper that issues a 308 Permanent Redirect to the
// HTTPS version of the same URL when the request is plain HTTP and the
// host is not a loopback name.  A TLS-terminating proxy is trusted through
// X-Forwarded-Proto.  When enabled is false the wrapper is a no-op.
func ForceHTTPS(enabled bool) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		if !enabled {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHTTPS(r) || isLoopback(stripPort(r.Host)) {
				h.ServeHTTP(w, r)
				return
			}
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
		})
	}
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return h
}
