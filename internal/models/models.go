// Package models defines the domain types for Vibestack.
package models

import "time"

// User is a registered member of the directory.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Bio          string    `json:"bio,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Project is a community-submitted AI coding tool entry.
type Project struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Title        string    `json:"title"`
	Tagline      string    `json:"tagline"`
	Description  string    `json:"description,omitempty"`
	URL          string    `json:"url"`
	Platform     string    `json:"platform,omitempty"`
	Category     string    `json:"category,omitempty"`
	UpvoteCount  int       `json:"upvote_count"`
	CommentCount int       `json:"comment_count"`
	ViewCount    int       `json:"view_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Comment is a user comment on a project.
type Comment struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Upvote records a single user's vote on a project.
// At most one upvote exists per (user, project) pair.
type Upvote struct {
	UserID    string    `json:"user_id"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Resource statuses.
const (
	ResourcePending  = "pending"
	ResourceApproved = "approved"
	ResourceRejected = "rejected"
)

// Resource is a community-submitted link awaiting curation.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	SubmitterID string    `json:"submitter_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session is an issued login session.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
