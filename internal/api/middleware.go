package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/identity"
)

// RequireUser gates a route group to authenticated requests. The session
// middleware has already resolved the principal; this only enforces it.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity.CurrentUser(r.Context()) == nil {
			writeAppError(w, apperr.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit returns sliding-window rate limit middleware keyed by the
// authenticated user when present, falling back to the client IP.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if u := identity.CurrentUser(r.Context()); u != nil {
				return "user:" + u.ID, nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeErr(w, http.StatusTooManyRequests, "rate limit exceeded", "rate_limited", nil)
		}),
	)
}
