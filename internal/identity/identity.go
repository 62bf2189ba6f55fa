// Package identity provides session-based authentication and the
// ownership policy check used by mutating handlers.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/models"
	"github.com/princepal9120/vibestack/internal/store"
)

// SessionCookie is the cookie name carrying the session token.
const SessionCookie = "vibestack_session"

// DefaultSessionTTL is how long an issued session stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Provider issues, resolves, and revokes login sessions.
type Provider struct {
	db  *store.DB
	ttl time.Duration
}

// NewProvider creates a session provider backed by the relational store.
func NewProvider(db *store.DB, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Provider{db: db, ttl: ttl}
}

// Register creates a new user with a bcrypt-hashed password. A taken
// username surfaces as ErrAlreadyExists.
func (p *Provider) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("identity: hash password: %w", err)
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
	if err := p.db.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials and issues a session token. Bad credentials
// surface as ErrUnauthenticated without revealing which part failed.
func (p *Provider) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	u, err := p.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", apperr.ErrUnauthenticated
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.ErrUnauthenticated
	}

	token := newToken(32)
	now := time.Now().UTC()
	if err := p.db.CreateSession(ctx, &models.Session{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: now.Add(p.ttl),
		CreatedAt: now,
	}); err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Resolve maps a session token to its user. Unknown or expired tokens
// surface as ErrUnauthenticated.
func (p *Provider) Resolve(ctx context.Context, token string) (*models.User, error) {
	s, err := p.db.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, err
	}
	u, err := p.db.GetUser(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}

// Logout revokes a session token.
func (p *Provider) Logout(ctx context.Context, token string) error {
	return p.db.DeleteSession(ctx, token)
}

// CanMutate is the single ownership policy: a principal may mutate a
// resource only when they created it. Returns ErrUnauthenticated for a
// nil principal and ErrForbidden for a non-owner, so handlers map
// directly to 401/403.
func CanMutate(principal *models.User, ownerID string) error {
	if principal == nil {
		return apperr.ErrUnauthenticated
	}
	if principal.ID != ownerID {
		return apperr.ErrForbidden
	}
	return nil
}

func newToken(nbytes int) string {
	b := make([]byte, nbytes)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("identity: rand: %v", err))
	}
	return hex.EncodeToString(b)
}
