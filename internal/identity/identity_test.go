package identity_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/identity"
	"github.com/princepal9120/vibestack/internal/models"
	"github.com/princepal9120/vibestack/internal/testutil"
)

func TestRegisterLoginResolve(t *testing.T) {
	db := testutil.TestDB(t)
	p := identity.NewProvider(db, time.Hour)
	ctx := context.Background()

	u, err := p.Register(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.PasswordHash == "hunter2" {
		t.Fatal("password stored in plaintext")
	}

	logged, token, err := p.Login(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != u.ID || token == "" {
		t.Errorf("logged = %+v, token = %q", logged, token)
	}

	resolved, err := p.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Username != "alice" {
		t.Errorf("resolved = %q", resolved.Username)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	db := testutil.TestDB(t)
	p := identity.NewProvider(db, time.Hour)
	ctx := context.Background()

	if _, err := p.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := p.Login(ctx, "alice", "wrong"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("wrong password: err = %v, want ErrUnauthenticated", err)
	}
	if _, _, err := p.Login(ctx, "nobody", "x"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("unknown user: err = %v, want ErrUnauthenticated", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	db := testutil.TestDB(t)
	p := identity.NewProvider(db, time.Hour)
	ctx := context.Background()

	if _, err := p.Register(ctx, "alice", "hunter2"); err != nil {
		t.Fatal(err)
	}
	_, token, err := p.Login(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := p.Resolve(ctx, token); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("resolve after logout: err = %v, want ErrUnauthenticated", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := testutil.TestDB(t)
	p := identity.NewProvider(db, time.Hour)
	ctx := context.Background()

	if _, err := p.Register(ctx, "alice", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Register(ctx, "alice", "b"); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestMiddlewareInvalidTokenIsAnonymous(t *testing.T) {
	db := testutil.TestDB(t)
	p := identity.NewProvider(db, time.Hour)

	var principal *models.User
	handler := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal = identity.CurrentUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if principal != nil {
		t.Errorf("principal = %+v, want anonymous", principal)
	}
}

func TestMiddlewareStoreFailureIsInternal(t *testing.T) {
	db := testutil.TestDB(t)
	p := identity.NewProvider(db, time.Hour)
	db.Close()

	reached := false
	handler := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// A failing session lookup must not degrade the request to anonymous.
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if reached {
		t.Error("handler ran despite session resolution failure")
	}
}

func TestCanMutate(t *testing.T) {
	db := testutil.TestDB(t)
	owner := testutil.SeedUser(t, db, "owner")
	other := testutil.SeedUser(t, db, "other")

	if err := identity.CanMutate(owner, owner.ID); err != nil {
		t.Errorf("owner: %v", err)
	}
	if err := identity.CanMutate(other, owner.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("non-owner: err = %v, want ErrForbidden", err)
	}
	if err := identity.CanMutate(nil, owner.ID); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Errorf("anonymous: err = %v, want ErrUnauthenticated", err)
	}
}
