// Package service implements the application's business rules on top of the
// repository interfaces.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nic96/minipress/internal/apperror"
	"github.com/nic96/minipress/internal/auth"
	"github.com/nic96/minipress/internal/model"
	"github.com/nic96/minipress/internal/repository"
)

// UserService manages user accounts. Plaintext passwords arriving in
// requests are hashed here; nothing below this layer ever sees one.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
}

func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService) *UserService {
	return &UserService{repo: repo, passwords: passwords}
}

func (s *UserService) FindAll(ctx context.Context) ([]model.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates the request and stores a new user. An omitted role
// defaults to subscriber.
func (s *UserService) Create(ctx context.Context, req *model.UserRequest) (*model.User, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    strings.TrimSpace(req.Username),
		Email:       req.Email,
		Name:        req.Name,
		AvatarURL:   req.AvatarURL,
		GravatarID:  req.GravatarID,
		GitHubID:    req.GitHubID,
		GitHubToken: req.GitHubToken,
		Role:        req.Role,
	}
	if user.Role == 0 {
		user.Role = model.RoleSubscriber
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := s.passwords.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = &hash
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies the request to an existing user. A nil or empty password
// leaves the stored hash untouched.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *model.UserRequest) (*model.User, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = strings.TrimSpace(req.Username)
	user.Email = req.Email
	user.Name = req.Name
	user.AvatarURL = req.AvatarURL
	user.GravatarID = req.GravatarID
	if req.GitHubToken != nil {
		user.GitHubToken = req.GitHubToken
	}
	if req.Role != 0 {
		user.Role = req.Role
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.passwords.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = &hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user and returns how many records were deleted.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	count, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, apperror.NotFound("user", id.String())
	}
	return count, nil
}

func (s *UserService) validate(req *model.UserRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return apperror.ValidationFailed("username", "username is required")
	}
	// Guest means "no account" and must never reach storage.
	if req.Role == model.RoleGuest {
		return apperror.ValidationFailed("role", "the guest role cannot be assigned to an account")
	}
	if req.Role != 0 && !req.Role.Valid() {
		return apperror.ValidationFailed("role", "unknown role")
	}
	return nil
}
