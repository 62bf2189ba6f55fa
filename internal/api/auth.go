package api

import (
	"net/http"
	"time"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/identity"
)

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.sessions.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusCreated, u)
}

// Login handles POST /api/auth/login. On success the session token is
// returned in the body and set as a cookie for browser clients.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}
	u, token, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     identity.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(identity.DefaultSessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeData(w, http.StatusOK, map[string]any{"user": u, "token": token})
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := identity.TokenFromRequest(r); token != "" {
		if err := h.sessions.Logout(r.Context(), token); err != nil {
			writeAppError(w, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     identity.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u := identity.CurrentUser(r.Context())
	if u == nil {
		writeAppError(w, apperr.ErrUnauthenticated)
		return
	}
	writeData(w, http.StatusOK, u)
}
