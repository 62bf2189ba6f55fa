// Package api implements the Vibestack REST API using chi.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/content"
	"github.com/princepal9120/vibestack/internal/directory"
	"github.com/princepal9120/vibestack/internal/identity"
	"github.com/princepal9120/vibestack/internal/models"
	"github.com/princepal9120/vibestack/internal/store"
	"github.com/princepal9120/vibestack/internal/suggest"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	dir      *directory.Service
	suggest  *suggest.Service
	catalog  *content.Store
	sessions *identity.Provider
}

// NewHandler creates a new Handler.
func NewHandler(dir *directory.Service, sg *suggest.Service, catalog *content.Store, sessions *identity.Provider) *Handler {
	return &Handler{dir: dir, suggest: sg, catalog: catalog, sessions: sessions}
}

// decode reads and validates a JSON request body into req.
func decode[T interface{ Validate() error }](w http.ResponseWriter, r *http.Request, req *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body", "validation_error", nil)
		return false
	}
	if err := (*req).Validate(); err != nil {
		writeAppError(w, err)
		return false
	}
	return true
}

// listFilters parses and bounds-checks the project listing query string.
func listFilters(r *http.Request) (store.Filters, error) {
	q := r.URL.Query()
	f := store.Filters{
		Platform: q.Get("platform"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Page:     1,
		Limit:    20,
	}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return f, apperr.Validationf("page", "must be a positive integer")
		}
		f.Page = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			return f, apperr.Validationf("limit", "must be an integer in [1,50]")
		}
		f.Limit = n
	}
	return f, nil
}

// ListProjects handles GET /api/projects.
//
//	@Summary		List projects with filtering, sorting, and pagination
//	@Tags			projects
//	@Produce		json
//	@Param			platform	query	string	false	"Filter by platform tag"
//	@Param			category	query	string	false	"Filter by category"
//	@Param			search		query	string	false	"Free-text search"
//	@Param			sort		query	string	false	"Sort key"	Enums(newest, trending, popular)
//	@Param			page		query	int		false	"Page number"
//	@Param			limit		query	int		false	"Page size"
//	@Router			/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	f, err := listFilters(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	projects, lm, err := h.dir.ListProjects(r.Context(), f)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeList(w, http.StatusOK, projects, lm)
}

// CreateProject handles POST /api/projects.
//
//	@Summary		Submit a new project
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Security		SessionAuth
//	@Router			/projects [post]
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.dir.CreateProject(r.Context(), identity.CurrentUser(r.Context()), directory.ProjectInput{
		Title:       req.Title,
		Tagline:     req.Tagline,
		Description: req.Description,
		URL:         req.URL,
		Platform:    req.Platform,
		Category:    req.Category,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

// projectDetail adds viewer-specific state to the project payload.
type projectDetail struct {
	models.Project
	Upvoted *bool `json:"upvoted,omitempty"`
}

// GetProject handles GET /api/projects/{id}. Authenticated viewers also
// see whether they have upvoted the project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.dir.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	detail := projectDetail{Project: *p}
	if u := identity.CurrentUser(r.Context()); u != nil {
		voted, err := h.dir.HasUpvoted(r.Context(), u, p.ID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		detail.Upvoted = &voted
	}
	writeData(w, http.StatusOK, detail)
}

// Upvote handles POST /api/projects/{id}/upvote.
//
//	@Summary		Upvote a project; 409 when already voted
//	@Tags			projects
//	@Security		SessionAuth
//	@Router			/projects/{id}/upvote [post]
func (h *Handler) Upvote(w http.ResponseWriter, r *http.Request) {
	p, err := h.dir.Upvote(r.Context(), identity.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusCreated, p)
}

// RemoveUpvote handles DELETE /api/projects/{id}/upvote.
func (h *Handler) RemoveUpvote(w http.ResponseWriter, r *http.Request) {
	p, err := h.dir.RemoveUpvote(r.Context(), identity.CurrentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusOK, p)
}

// ListComments handles GET /api/projects/{id}/comments.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.dir.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusOK, comments)
}

// CreateComment handles POST /api/projects/{id}/comments.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.dir.CreateComment(r.Context(), identity.CurrentUser(r.Context()), chi.URLParam(r, "id"), req.Body)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

// UpdateComment handles PATCH /api/comments/{id}. Author-only.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.dir.UpdateComment(r.Context(), identity.CurrentUser(r.Context()), chi.URLParam(r, "id"), req.Body)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

// DeleteComment handles DELETE /api/comments/{id}. Author-only.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.dir.DeleteComment(r.Context(), identity.CurrentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUser handles GET /api/users/{username}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.dir.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

// UpdateUser handles PATCH /api/users/{username}. Self-only.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.dir.UpdateUser(r.Context(), identity.CurrentUser(r.Context()), chi.URLParam(r, "username"), directory.UserPatch{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

// SubmitResource handles POST /api/resources/submit.
func (h *Handler) SubmitResource(w http.ResponseWriter, r *http.Request) {
	var req SubmitResourceRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.dir.SubmitResource(r.Context(), identity.CurrentUser(r.Context()), directory.ResourceInput{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusCreated, res)
}
