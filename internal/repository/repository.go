// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the database/sql implementation.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nic96/minipress/internal/model"
)

// UserRepository stores and retrieves user accounts.
//
// Create and Update fill in server-assigned fields (ID, timestamps) on the
// passed struct. Delete returns the number of rows removed (0 or 1); mapping
// 0 to a not-found error is the caller's job.
type UserRepository interface {
	FindAll(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// PostRepository stores and retrieves posts. Same conventions as
// UserRepository; Create and Delete run inside explicit transactions.
type PostRepository interface {
	FindAll(ctx context.Context) ([]model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
