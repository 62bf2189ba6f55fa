// Package directory implements the community directory domain logic:
// project listing and submission, upvotes, comments, user profiles, and
// resource submissions. It sits between the HTTP handlers and the store
// and owns all ownership checks.
package directory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/princepal9120/vibestack/internal/apperr"
	"github.com/princepal9120/vibestack/internal/identity"
	"github.com/princepal9120/vibestack/internal/models"
	"github.com/princepal9120/vibestack/internal/store"
)

// Publisher receives domain events for live subscribers. The SSE broker
// implements it; a nil publisher disables events.
type Publisher interface {
	Publish(event string, data any)
}

// Event names broadcast by the service.
const (
	EventProjectCreated = "project_created"
	EventProjectUpvoted = "project_upvoted"
	EventCommentCreated = "comment_created"
)

// ListMeta is the pagination metadata attached to list responses.
type ListMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Service coordinates store operations for the API layer.
type Service struct {
	db     *store.DB
	events Publisher
}

// NewService creates a directory service. events may be nil.
func NewService(db *store.DB, events Publisher) *Service {
	return &Service{db: db, events: events}
}

func (s *Service) publish(event string, data any) {
	if s.events != nil {
		s.events.Publish(event, data)
	}
}

// ProjectInput is the validated payload for a project submission.
type ProjectInput struct {
	Title       string
	Tagline     string
	Description string
	URL         string
	Platform    string
	Category    string
}

// ListProjects returns one page of projects plus pagination metadata.
func (s *Service) ListProjects(ctx context.Context, f store.Filters) ([]models.Project, ListMeta, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	projects, total, err := s.db.ListProjects(ctx, f)
	if err != nil {
		return nil, ListMeta{}, err
	}
	meta := ListMeta{
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: (total + f.Limit - 1) / f.Limit,
	}
	return projects, meta, nil
}

// CreateProject submits a new project owned by the principal.
func (s *Service) CreateProject(ctx context.Context, principal *models.User, in ProjectInput) (*models.Project, error) {
	if principal == nil {
		return nil, apperr.ErrUnauthenticated
	}
	now := time.Now().UTC()
	p := &models.Project{
		ID:          uuid.NewString(),
		OwnerID:     principal.ID,
		Title:       in.Title,
		Tagline:     in.Tagline,
		Description: in.Description,
		URL:         in.URL,
		Platform:    in.Platform,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	s.publish(EventProjectCreated, p)
	return p, nil
}

// GetProject returns a project and bumps its view counter.
func (s *Service) GetProject(ctx context.Context, id string) (*models.Project, error) {
	if err := s.db.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.db.GetProject(ctx, id)
}

// HasUpvoted reports whether the principal has an active upvote on the
// project. Anonymous viewers have not voted by definition.
func (s *Service) HasUpvoted(ctx context.Context, principal *models.User, projectID string) (bool, error) {
	if principal == nil {
		return false, nil
	}
	return s.db.HasUpvoted(ctx, principal.ID, projectID)
}

// Upvote records the principal's upvote. Duplicate votes surface as
// ErrAlreadyExists so the handler responds 409.
func (s *Service) Upvote(ctx context.Context, principal *models.User, projectID string) (*models.Project, error) {
	if principal == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if err := s.db.AddUpvote(ctx, principal.ID, projectID); err != nil {
		return nil, err
	}
	p, err := s.db.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.publish(EventProjectUpvoted, p)
	return p, nil
}

// RemoveUpvote withdraws the principal's upvote. A vote that was never
// cast surfaces as ErrNotFound.
func (s *Service) RemoveUpvote(ctx context.Context, principal *models.User, projectID string) (*models.Project, error) {
	if principal == nil {
		return nil, apperr.ErrUnauthenticated
	}
	if err := s.db.RemoveUpvote(ctx, principal.ID, projectID); err != nil {
		return nil, err
	}
	return s.db.GetProject(ctx, projectID)
}

// ListComments returns all comments on a project, oldest first.
func (s *Service) ListComments(ctx context.Context, projectID string) ([]models.Comment, error) {
	if _, err := s.db.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.db.ListComments(ctx, projectID)
}

// CreateComment posts a comment by the principal and bumps the project's
// comment counter atomically.
func (s *Service) CreateComment(ctx context.Context, principal *models.User, projectID, body string) (*models.Comment, error) {
	if principal == nil {
		return nil, apperr.ErrUnauthenticated
	}
	now := time.Now().UTC()
	c := &models.Comment{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		AuthorID:  principal.ID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	s.publish(EventCommentCreated, c)
	return c, nil
}

// UpdateComment edits a comment body. Only the comment's author may edit.
func (s *Service) UpdateComment(ctx context.Context, principal *models.User, id, body string) (*models.Comment, error) {
	c, err := s.db.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := identity.CanMutate(principal, c.AuthorID); err != nil {
		return nil, err
	}
	if err := s.db.UpdateComment(ctx, id, body); err != nil {
		return nil, err
	}
	return s.db.GetComment(ctx, id)
}

// DeleteComment removes a comment and decrements the project's comment
// counter. Only the comment's author may delete.
func (s *Service) DeleteComment(ctx context.Context, principal *models.User, id string) error {
	c, err := s.db.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if err := identity.CanMutate(principal, c.AuthorID); err != nil {
		return err
	}
	return s.db.DeleteComment(ctx, id)
}

// GetUser returns a user's public profile by username.
func (s *Service) GetUser(ctx context.Context, username string) (*models.User, error) {
	return s.db.GetUserByUsername(ctx, username)
}

// UserPatch carries the updatable profile fields; nil means unchanged.
type UserPatch struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// UpdateUser applies a self-only profile patch.
func (s *Service) UpdateUser(ctx context.Context, principal *models.User, username string, patch UserPatch) (*models.User, error) {
	u, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := identity.CanMutate(principal, u.ID); err != nil {
		return nil, err
	}

	displayName := u.DisplayName
	bio := u.Bio
	avatarURL := u.AvatarURL
	if patch.DisplayName != nil {
		displayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		avatarURL = *patch.AvatarURL
	}

	if err := s.db.UpdateUser(ctx, u.ID, displayName, bio, avatarURL); err != nil {
		return nil, err
	}
	return s.db.GetUserByUsername(ctx, username)
}

// ResourceInput is the validated payload for a resource submission.
type ResourceInput struct {
	Title       string
	URL         string
	Description string
}

// SubmitResource files a pending-review resource. Duplicate URLs are
// rejected as a validation error; the UNIQUE index backs the pre-check so
// concurrent submissions of the same URL cannot both land.
func (s *Service) SubmitResource(ctx context.Context, principal *models.User, in ResourceInput) (*models.Resource, error) {
	exists, err := s.db.ResourceURLExists(ctx, in.URL)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validationf("url", "already submitted")
	}

	r := &models.Resource{
		ID:          uuid.NewString(),
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Status:      models.ResourcePending,
		CreatedAt:   time.Now().UTC(),
	}
	if principal != nil {
		r.SubmitterID = principal.ID
	}
	if err := s.db.CreateResource(ctx, r); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			// Lost the race with a concurrent submission of the same URL.
			return nil, apperr.Validationf("url", "already submitted")
		}
		return nil, err
	}
	return r, nil
}
