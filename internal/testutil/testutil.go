// Package testutil provides shared test helpers for setting up databases
// and seed data.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/princepal9120/vibestack/internal/models"
	"github.com/princepal9120/vibestack/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "vibestack-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// SeedUser creates a user with the given username and password "secret".
func SeedUser(t *testing.T, db *store.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// SeedProject creates a project owned by ownerID.
func SeedProject(t *testing.T, db *store.DB, ownerID, title string) *models.Project {
	t.Helper()
	now := time.Now().UTC()
	p := &models.Project{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Tagline:   title + " tagline",
		URL:       "https://example.com/" + uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("seed project %s: %v", title, err)
	}
	return p
}
