package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/directory"
)

// meta is the metadata half of the success envelope.
type meta struct {
	Timestamp  time.Time `json:"timestamp"`
	Total      *int      `json:"total,omitempty"`
	Page       *int      `json:"page,omitempty"`
	Limit      *int      `json:"limit,omitempty"`
	TotalPages *int      `json:"totalPages,omitempty"`
}

type envelope struct {
	Data any  `json:"data"`
	Meta meta `json:"meta"`
}

type errResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
	Code    string            `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// writeData wraps v in the success envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, envelope{Data: v, Meta: meta{Timestamp: time.Now().UTC()}})
}

// writeList wraps items in the success envelope with pagination metadata.
func writeList(w http.ResponseWriter, status int, items any, lm directory.ListMeta) {
	writeJSON(w, status, envelope{Data: items, Meta: meta{
		Timestamp:  time.Now().UTC(),
		Total:      &lm.Total,
		Page:       &lm.Page,
		Limit:      &lm.Limit,
		TotalPages: &lm.TotalPages,
	}})
}

func writeErr(w http.ResponseWriter, status int, msg, code string, details map[string]string) {
	writeJSON(w, status, errResponse{Error: msg, Details: details, Code: code})
}

// writeAppError converts a service error into the error envelope. Any
// error outside the taxonomy is logged and reported as an opaque 500, so
// no failure crosses the handler boundary unconverted.
func writeAppError(w http.ResponseWriter, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		writeErr(w, http.StatusBadRequest, "validation failed", "validation_error", ve.Fields)
		return
	}
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		writeErr(w, http.StatusUnauthorized, "authentication required", "unauthenticated", nil)
	case errors.Is(err, apperr.ErrForbidden):
		writeErr(w, http.StatusForbidden, "forbidden", "forbidden", nil)
	case errors.Is(err, apperr.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not found", "not_found", nil)
	case errors.Is(err, apperr.ErrAlreadyExists), errors.Is(err, apperr.ErrConflict):
		writeErr(w, http.StatusConflict, "conflict", "conflict", nil)
	default:
		slog.Error("internal error", slog.String("error", err.Error()))
		writeErr(w, http.StatusInternalServerError, "internal error", "internal", nil)
	}
}
