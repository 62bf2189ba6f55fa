package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/princepal9120/vibestack/internal/content"
	"github.com/princepal9120/vibestack/internal/directory"
	"github.com/princepal9120/vibestack/internal/identity"
	"github.com/princepal9120/vibestack/internal/suggest"
)

// RouterConfig tunes per-router middleware; zero values pick defaults.
type RouterConfig struct {
	// WriteLimit is the mutating-request budget per user-or-IP per minute.
	WriteLimit int
	// SSEHandler, if non-nil, is mounted at GET /events.
	SSEHandler http.Handler
}

// NewRouter creates a chi router with all API routes mounted. The session
// middleware resolves the current user on every route; write routes are
// additionally gated and rate limited.
func NewRouter(dir *directory.Service, sg *suggest.Service, catalog *content.Store, sessions *identity.Provider, cfg RouterConfig) chi.Router {
	h := NewHandler(dir, sg, catalog, sessions)

	writeLimit := cfg.WriteLimit
	if writeLimit <= 0 {
		writeLimit = 30
	}

	r := chi.NewRouter()
	r.Use(sessions.Middleware)

	// Search.
	r.Get("/search/suggest", h.Suggest)

	// Catalog: profiles and collections.
	r.Get("/profiles", h.ListProfiles)
	r.Get("/profiles/{id}", h.GetProfile)
	r.Get("/collections", h.ListCollections)
	r.Get("/collections/{id}", h.GetCollection)

	// Projects and comments, public reads.
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/{id}", h.GetProject)
	r.Get("/projects/{id}/comments", h.ListComments)

	// Users.
	r.Get("/users/{username}", h.GetUser)

	// Auth.
	r.Group(func(r chi.Router) {
		r.Use(RateLimit(writeLimit, time.Minute))
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)
	})
	r.Get("/auth/me", h.Me)

	// Resource submission is open to anonymous users but rate limited.
	r.With(RateLimit(writeLimit, time.Minute)).Post("/resources/submit", h.SubmitResource)

	// Authenticated writes.
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Use(RateLimit(writeLimit, time.Minute))

		r.Post("/projects", h.CreateProject)
		r.Post("/projects/{id}/upvote", h.Upvote)
		r.Delete("/projects/{id}/upvote", h.RemoveUpvote)
		r.Post("/projects/{id}/comments", h.CreateComment)
		r.Patch("/comments/{id}", h.UpdateComment)
		r.Delete("/comments/{id}", h.DeleteComment)
		r.Patch("/users/{username}", h.UpdateUser)
	})

	// SSE endpoint (same session middleware).
	if cfg.SSEHandler != nil {
		r.Get("/events", cfg.SSEHandler.ServeHTTP)
	}

	return r
}
