package content

import (
	"os"
	"path/filepath"
	"testing"
)

const testCatalog = `
profiles:
  - id: cursor
    name: Cursor
    tagline: AI code editor
    url: https://cursor.com
    pricing: freemium
    strengths: [autocomplete, agent mode]
  - id: windsurf
    name: Windsurf
    tagline: Agentic IDE
    url: https://windsurf.com

collections:
  - id: starter-kit
    name: Starter Kit
    description: Best tools for beginners
    items: [profile/cursor]

items:
  - id: vibe-guide
    type: resource
    title: The Vibe Coding Guide
    subtitle: Prompting patterns for agents
    url: https://example.com/guide
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	s, err := Load(writeCatalog(t, testCatalog))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 1 explicit item + 2 profiles + 1 collection, all searchable.
	if got := len(s.Items()); got != 4 {
		t.Errorf("len(Items) = %d, want 4", got)
	}
	if got := len(s.Profiles()); got != 2 {
		t.Errorf("len(Profiles) = %d, want 2", got)
	}
	p, ok := s.Profile("cursor")
	if !ok {
		t.Fatal("Profile(cursor) not found")
	}
	if p.Tagline != "AI code editor" {
		t.Errorf("tagline = %q", p.Tagline)
	}
	c, ok := s.Collection("starter-kit")
	if !ok {
		t.Fatal("Collection(starter-kit) not found")
	}
	if len(c.ItemIDs) != 1 {
		t.Errorf("collection items = %v", c.ItemIDs)
	}
}

func TestLoadRejectsUnknownItemType(t *testing.T) {
	_, err := Load(writeCatalog(t, `
items:
  - id: x
    type: gadget
    title: X
`))
	if err == nil {
		t.Fatal("expected error for unknown item type")
	}
}

func TestLoadRejectsDuplicateID(t *testing.T) {
	_, err := Load(writeCatalog(t, `
items:
  - id: x
    type: resource
    title: One
  - id: x
    type: resource
    title: Two
`))
	if err == nil {
		t.Fatal("expected error for duplicate id within type")
	}
}

func TestLoadAllowsSameIDAcrossTypes(t *testing.T) {
	_, err := Load(writeCatalog(t, `
items:
  - id: x
    type: resource
    title: One
  - id: x
    type: project
    title: Two
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing catalog")
	}
}
