// Package content loads the static searchable catalog: platform profiles,
// curated collections, approved resources, and featured project entries.
// The catalog is read once at startup and is immutable for the process
// lifetime; changing it on disk requires a restart to take effect.
package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Item types.
const (
	TypeProject    = "project"
	TypeProfile    = "profile"
	TypeCollection = "collection"
	TypeResource   = "resource"
)

var validTypes = map[string]struct{}{
	TypeProject:    {},
	TypeProfile:    {},
	TypeCollection: {},
	TypeResource:   {},
}

// Item is one searchable catalog entry. ID is unique within a type.
type Item struct {
	ID       string `yaml:"id" json:"id"`
	Type     string `yaml:"type" json:"type"`
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle,omitempty"`
	URL      string `yaml:"url" json:"url"`
}

// Profile is the full curated platform profile as served by /api/profiles.
type Profile struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Tagline     string   `yaml:"tagline" json:"tagline"`
	Description string   `yaml:"description" json:"description,omitempty"`
	URL         string   `yaml:"url" json:"url"`
	Pricing     string   `yaml:"pricing" json:"pricing,omitempty"`
	Strengths   []string `yaml:"strengths" json:"strengths,omitempty"`
}

// Collection is a curated grouping of catalog entries.
type Collection struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description,omitempty"`
	ItemIDs     []string `yaml:"items" json:"items"`
}

// Store is the immutable in-process catalog. Safe for unsynchronized
// concurrent reads after Load returns.
type Store struct {
	items       []Item
	profiles    []Profile
	collections []Collection
	profileByID map[string]*Profile
	collByID    map[string]*Collection
}

type catalogFile struct {
	Profiles    []Profile    `yaml:"profiles"`
	Collections []Collection `yaml:"collections"`
	Items       []Item       `yaml:"items"`
}

// Load reads and validates the catalog file. Any malformed entry is a
// startup-time fatal condition.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read catalog %s: %w", path, err)
	}
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("content: parse catalog %s: %w", path, err)
	}
	return build(cf)
}

func build(cf catalogFile) (*Store, error) {
	s := &Store{
		profiles:    cf.Profiles,
		collections: cf.Collections,
		profileByID: make(map[string]*Profile, len(cf.Profiles)),
		collByID:    make(map[string]*Collection, len(cf.Collections)),
	}

	seen := make(map[string]struct{}, len(cf.Items))
	for i, it := range cf.Items {
		if it.ID == "" || it.Title == "" {
			return nil, fmt.Errorf("content: item %d: id and title are required", i)
		}
		if _, ok := validTypes[it.Type]; !ok {
			return nil, fmt.Errorf("content: item %q: unknown type %q", it.ID, it.Type)
		}
		key := it.Type + "/" + it.ID
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("content: duplicate item %s", key)
		}
		seen[key] = struct{}{}
		s.items = append(s.items, it)
	}

	for i := range cf.Profiles {
		p := &cf.Profiles[i]
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("content: profile %d: id and name are required", i)
		}
		if _, dup := s.profileByID[p.ID]; dup {
			return nil, fmt.Errorf("content: duplicate profile %q", p.ID)
		}
		s.profileByID[p.ID] = p
		// Profiles are searchable alongside explicit items.
		s.items = append(s.items, Item{
			ID:       p.ID,
			Type:     TypeProfile,
			Title:    p.Name,
			Subtitle: p.Tagline,
			URL:      p.URL,
		})
	}

	for i := range cf.Collections {
		c := &cf.Collections[i]
		if c.ID == "" || c.Name == "" {
			return nil, fmt.Errorf("content: collection %d: id and name are required", i)
		}
		if _, dup := s.collByID[c.ID]; dup {
			return nil, fmt.Errorf("content: duplicate collection %q", c.ID)
		}
		s.collByID[c.ID] = c
		s.items = append(s.items, Item{
			ID:       c.ID,
			Type:     TypeCollection,
			Title:    c.Name,
			Subtitle: c.Description,
			URL:      "/collections/" + c.ID,
		})
	}

	return s, nil
}

// Items returns the full searchable item list in catalog order.
// Callers must not mutate the returned slice.
func (s *Store) Items() []Item {
	return s.items
}

// Profiles returns all platform profiles in catalog order.
func (s *Store) Profiles() []Profile {
	return s.profiles
}

// Profile looks up a platform profile by id.
func (s *Store) Profile(id string) (*Profile, bool) {
	p, ok := s.profileByID[id]
	return p, ok
}

// Collections returns all curated collections in catalog order.
func (s *Store) Collections() []Collection {
	return s.collections
}

// Collection looks up a curated collection by id.
func (s *Store) Collection(id string) (*Collection, bool) {
	c, ok := s.collByID[id]
	return c, ok
}
