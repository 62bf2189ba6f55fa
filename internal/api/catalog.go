package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SuggestHandlers serve the static catalog surface: autocomplete
// suggestions, platform profiles, and curated collections.

// Suggest handles GET /api/search/suggest.
//
//	@Summary		Fuzzy autocomplete over the content catalog
//	@Tags			search
//	@Produce		json
//	@Param			q		query	string	true	"Query text (1-100 chars)"
//	@Param			limit	query	int		false	"Max results (1-20, default 8)"
//	@Router			/search/suggest [get]
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, ok := h.suggest.Suggest(q.Get("q"), q.Get("limit"))
	status := http.StatusOK
	if !ok {
		status = http.StatusBadRequest
	}
	// The suggest contract keeps its own stable shape rather than the
	// data/meta envelope so clients never branch on status alone.
	writeJSON(w, status, resp)
}

// ListProfiles handles GET /api/profiles.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.catalog.Profiles())
}

// GetProfile handles GET /api/profiles/{id}.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.catalog.Profile(chi.URLParam(r, "id"))
	if !ok {
		writeErr(w, http.StatusNotFound, "not found", "not_found", nil)
		return
	}
	writeData(w, http.StatusOK, p)
}

// ListCollections handles GET /api/collections.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.catalog.Collections())
}

// GetCollection handles GET /api/collections/{id}.
func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog.Collection(chi.URLParam(r, "id"))
	if !ok {
		writeErr(w, http.StatusNotFound, "not found", "not_found", nil)
		return
	}
	writeData(w, http.StatusOK, c)
}
