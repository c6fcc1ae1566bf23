package service

import (
	"context"
	"errors"

	"github.com/nic96/minipress/internal/apperror"
	"github.com/nic96/minipress/internal/auth"
	"github.com/nic96/minipress/internal/model"
	"github.com/nic96/minipress/internal/repository"
)

// AuthService maps OAuth logins onto local accounts.
type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// LoginOrRegisterGitHub returns the local account for a GitHub profile,
// creating one on first login. The stored access token is refreshed on every
// login; the local role, username, and profile fields are not overwritten for
// existing accounts.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, profile *auth.GitHubProfile, accessToken string) (*model.User, error) {
	user, err := s.users.FindByGitHubID(ctx, profile.ID)
	switch {
	case err == nil:
		user.GitHubToken = &accessToken
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil

	case errors.Is(err, apperror.ErrNotFound):
		githubID := profile.ID
		user := &model.User{
			Username:    profile.Login,
			Email:       profile.Email,
			Name:        profile.Name,
			AvatarURL:   profile.AvatarURL,
			GitHubID:    &githubID,
			GitHubToken: &accessToken,
			Role:        model.RoleSubscriber,
		}
		if profile.GravatarID != "" {
			gravatarID := profile.GravatarID
			user.GravatarID = &gravatarID
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil

	default:
		return nil, err
	}
}
