// Package model defines the data structures used throughout the application.
package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account. A working login path requires either a
// password hash or a GitHub ID; the schema enforces neither, so both fields
// are nullable.
//
// Password and GitHubToken carry the `json:"-"` tag: they never leave the
// process through the JSON API. The identity cookie serializes users through
// its own internal shape instead (see internal/auth).
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       *string   `json:"email"`
	Password    *string   `json:"-"` // bcrypt hash, nil for OAuth-only accounts
	Name        *string   `json:"name"`
	AvatarURL   *string   `json:"avatar_url"`
	GravatarID  *string   `json:"gravatar_id"`
	GitHubID    *int64    `json:"github_id"`
	GitHubToken *string   `json:"-"` // OAuth access token from the last login
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserRequest is the inbound payload for user create and update. Password is
// plaintext here; the service hashes it before anything is stored.
type UserRequest struct {
	Username    string  `json:"username"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	Name        *string `json:"name"`
	AvatarURL   *string `json:"avatar_url"`
	GravatarID  *string `json:"gravatar_id"`
	GitHubID    *int64  `json:"github_id"`
	GitHubToken *string `json:"github_token"`
	Role        Role    `json:"role"`
}
