package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nic96/minipress/internal/apperror"
	"github.com/nic96/minipress/internal/model"
)

// mockUserRepo is an in-memory UserRepository with the same error semantics
// as the sqlite implementation.
type mockUserRepo struct {
	users       map[uuid.UUID]model.User
	updateCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]model.User)}
}

func (m *mockUserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id.String())
	}
	return &u, nil
}

func (m *mockUserRepo) FindByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	for _, u := range m.users {
		if u.GitHubID != nil && *u.GitHubID == githubID {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", "github")
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.Conflict("user", "username already taken")
		}
		if u.GitHubID != nil && user.GitHubID != nil && *u.GitHubID == *user.GitHubID {
			return apperror.Conflict("user", "github_id already registered")
		}
	}
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	m.updateCalls++
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID.String())
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

// mockPostRepo is an in-memory PostRepository.
type mockPostRepo struct {
	posts map[uuid.UUID]model.Post
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[uuid.UUID]model.Post)}
}

func (m *mockPostRepo) FindAll(ctx context.Context) ([]model.Post, error) {
	out := make([]model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id.String())
	}
	return &p, nil
}

func (m *mockPostRepo) Create(ctx context.Context, post *model.Post) error {
	post.ID = uuid.New()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	m.posts[post.ID] = *post
	return nil
}

func (m *mockPostRepo) Update(ctx context.Context, post *model.Post) error {
	stored, ok := m.posts[post.ID]
	if !ok {
		return apperror.NotFound("post", post.ID.String())
	}
	post.Slug = stored.Slug
	post.UpdatedAt = time.Now()
	m.posts[post.ID] = *post
	return nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := m.posts[id]; !ok {
		return 0, nil
	}
	delete(m.posts, id)
	return 1, nil
}
