package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/models"
)

type ctxKey struct{}

// CurrentUser returns the authenticated user from the request context,
// or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(ctxKey{}).(*models.User)
	return u
}

// WithUser returns a context carrying the given user; exported for tests.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// Middleware resolves the session token from the Authorization header or
// the session cookie and stores the user in the request context. Requests
// with no token or an invalid one pass through anonymously; gating is
// RequireUser's job so that read-only routes stay public. A store failure
// during resolution fails the request instead of degrading it to
// anonymous.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token != "" {
			u, err := p.Resolve(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(WithUser(r.Context(), u))
			case errors.Is(err, apperr.ErrUnauthenticated):
				// Unknown or expired token; continue anonymously.
			default:
				slog.Error("session resolution failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal error","code":"internal"}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromRequest extracts the session token from the Authorization
// header or the session cookie; empty when neither is present.
func TokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
