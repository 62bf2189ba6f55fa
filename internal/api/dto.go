package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/princepal9120/vibestack/internal/apperr"
)

// toValidationError converts an ozzo validation result into the
// application taxonomy so handlers respond 400 with field details.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validation.Errors); ok {
		fields := make(map[string]string, len(ve))
		for f, ferr := range ve {
			fields[f] = ferr.Error()
		}
		return apperr.NewValidation(fields)
	}
	return apperr.Validationf("body", "%s", err.Error())
}

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30), is.Alphanumeric),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	))
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	))
}

// CreateProjectRequest is the body for POST /api/projects.
type CreateProjectRequest struct {
	Title       string `json:"title"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Platform    string `json:"platform"`
	Category    string `json:"category"`
}

func (r CreateProjectRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.Tagline, validation.Length(0, 200)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.URL, validation.Required, is.URL),
		validation.Field(&r.Platform, validation.Length(0, 50)),
		validation.Field(&r.Category, validation.Length(0, 50)),
	))
}

// CommentRequest is the body for creating or editing a comment.
type CommentRequest struct {
	Body string `json:"body"`
}

func (r CommentRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.Length(1, 2000)),
	))
}

// UpdateUserRequest is the body for PATCH /api/users/{username}.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

func (r UpdateUserRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Length(1, 80)),
		validation.Field(&r.Bio, validation.Length(0, 1000)),
		validation.Field(&r.AvatarURL, is.URL),
	))
}

// SubmitResourceRequest is the body for POST /api/resources/submit.
type SubmitResourceRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (r SubmitResourceRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.URL, validation.Required, is.URL),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	))
}
