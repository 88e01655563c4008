package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
)

// Allower decides whether another request for key may proceed.
// Satisfied by *redisstore.Limiter.
type Allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NewRateLimiter limits POST requests per client IP. Other methods pass
// through uncounted so forms can still be fetched. When the store fails the
// request is let through and the failure logged.
//
// Wire it after NewRealIP so RemoteAddr is the client address. Forwarding
// headers from untrusted peers are ignored there, so they cannot rotate the key.
func NewRateLimiter(limiter Allower, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ok, err := limiter.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				writeError(w, http.StatusTooManyRequests, "rate_limited",
					"too many attempts, please try again after a few minutes")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
