package suggest

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/princepal9120/vibestack/internal/content"
)

// Query limits enforced by the service.
const (
	MaxQueryLen  = 100
	MinLimit     = 1
	MaxLimit     = 20
	DefaultLimit = 8
)

// Response is the stable suggest contract: Suggestions is always present,
// Error is set only on validation or internal failure.
type Response struct {
	Suggestions []content.Item `json:"suggestions"`
	Error       string         `json:"error,omitempty"`
}

// Service enforces the request contract and shapes index hits for the
// public API. Stateless and read-only.
type Service struct {
	idx *Index
}

// NewService creates a suggest service over a built index.
func NewService(idx *Index) *Service {
	return &Service{idx: idx}
}

// Suggest validates the raw query parameters and queries the index.
// ok is false when the input was rejected; the response then carries a
// machine-readable error and an empty suggestion list.
func (s *Service) Suggest(rawQuery, rawLimit string) (Response, bool) {
	q := strings.TrimSpace(rawQuery)
	// Length bounds are in characters, not bytes, so multibyte queries
	// are not penalized.
	if n := utf8.RuneCountInString(q); n < 1 || n > MaxQueryLen {
		return Response{Suggestions: []content.Item{}, Error: "invalid query"}, false
	}

	limit := DefaultLimit
	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < MinLimit || n > MaxLimit {
			return Response{Suggestions: []content.Item{}, Error: "invalid query"}, false
		}
		limit = n
	}

	hits := s.idx.Query(q, limit)
	items := make([]content.Item, len(hits))
	for i, h := range hits {
		items[i] = h.Item
	}
	return Response{Suggestions: items}, true
}
