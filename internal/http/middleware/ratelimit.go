package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/rogerio-castellano/inventory-flow/internal/http/rate_limiter"
)

// RateLimit rejects clients that exhaust their token bucket with 429.
func RateLimit(limiter *rate_limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"message": "Too many requests, please try again later."})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keys clients by the connection's remote address. Forwarding headers are only
// honoured when the router runs chi's RealIP, which rewrites RemoteAddr behind a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
