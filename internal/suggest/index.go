// Package suggest implements the fuzzy autocomplete index and the
// request-level suggest service built on top of it.
package suggest

import (
	"fmt"
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/princepal9120/vibestack/internal/content"
)

// Searchable field names.
const (
	FieldTitle    = "title"
	FieldSubtitle = "subtitle"
)

// FieldWeight assigns a relative weight to one searchable field.
type FieldWeight struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// Config controls which item fields are indexed and how they rank.
type Config struct {
	Fields []FieldWeight `yaml:"fields"`
}

// DefaultConfig indexes title above subtitle.
func DefaultConfig() Config {
	return Config{Fields: []FieldWeight{
		{Name: FieldTitle, Weight: 2.0},
		{Name: FieldSubtitle, Weight: 1.0},
	}}
}

// Hit is one ranked match. Score is internal to the index and never
// leaves the service layer.
type Hit struct {
	Item  content.Item
	Score float64
}

// Index is a read-only fuzzy matcher over the content store. Safe for
// concurrent use once built.
type Index struct {
	items  []content.Item
	fields []FieldWeight
	// corpus[f][i] is field f of item i, in catalog order.
	corpus [][]string
}

type stringSource []string

func (s stringSource) String(i int) string { return s[i] }
func (s stringSource) Len() int            { return len(s) }

// NewIndex builds the index over items. A field weight referencing an
// unknown field, or a non-positive weight, is a configuration error and
// fails the build; callers treat this as fatal at startup.
func NewIndex(items []content.Item, cfg Config) (*Index, error) {
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("suggest: at least one searchable field is required")
	}
	idx := &Index{items: items, fields: cfg.Fields}
	for _, fw := range cfg.Fields {
		if fw.Weight <= 0 {
			return nil, fmt.Errorf("suggest: field %q: weight must be positive, got %v", fw.Name, fw.Weight)
		}
		col := make([]string, len(items))
		switch fw.Name {
		case FieldTitle:
			for i, it := range items {
				col[i] = it.Title
			}
		case FieldSubtitle:
			for i, it := range items {
				col[i] = it.Subtitle
			}
		default:
			return nil, fmt.Errorf("suggest: unknown field %q", fw.Name)
		}
		idx.corpus = append(idx.corpus, col)
	}
	return idx, nil
}

// Query returns up to limit items ranked best match first. Ordering is
// deterministic: ties are broken by catalog order. An empty query is the
// caller's responsibility to reject; here it simply matches nothing.
func (idx *Index) Query(text string, limit int) []Hit {
	// best score per item index, across all fields
	best := make(map[int]float64)
	for f, fw := range idx.fields {
		for _, m := range fuzzy.FindFrom(text, stringSource(idx.corpus[f])) {
			score := float64(m.Score) * fw.Weight
			if cur, ok := best[m.Index]; !ok || score > cur {
				best[m.Index] = score
			}
		}
	}

	// Collect in catalog order, then stable-sort by score so that ties
	// keep the content store's original ordering.
	hits := make([]Hit, 0, len(best))
	for i := range idx.items {
		if score, ok := best[i]; ok {
			hits = append(hits, Hit{Item: idx.items[i], Score: score})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
