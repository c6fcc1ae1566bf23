package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/nic96/minipress/internal/apperror"
	"github.com/nic96/minipress/internal/model"
	"github.com/nic96/minipress/internal/repository"
)

// excerptWords caps the auto-generated excerpt length.
const excerptWords = 55

// PostService manages posts and enforces who may write them. Creating a post
// takes an author role or better; editing or deleting someone else's post
// takes an editor role or better.
type PostService struct {
	repo repository.PostRepository
}

func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{repo: repo}
}

func (s *PostService) FindAll(ctx context.Context) ([]model.Post, error) {
	return s.repo.FindAll(ctx)
}

func (s *PostService) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new post owned by the given user. The slug is derived from
// the title here and never changes afterwards.
func (s *PostService) Create(ctx context.Context, user *model.User, req *model.PostRequest) (*model.Post, error) {
	if !user.Role.CanPublish() {
		return nil, apperror.Unauthorized("your role does not allow publishing posts")
	}
	if err := validatePost(req); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:  user.ID,
		Title:   strings.TrimSpace(req.Title),
		Slug:    slug.Make(req.Title),
		Excerpt: makeExcerpt(req.Content),
		Content: req.Content,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update rewrites the title and content of an existing post. The slug keeps
// its original value. Only the owner or an editor-or-better may update.
func (s *PostService) Update(ctx context.Context, user *model.User, id uuid.UUID, req *model.PostRequest) (*model.Post, error) {
	if err := validatePost(req); err != nil {
		return nil, err
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(user, post) {
		return nil, apperror.Unauthorized("you may only modify your own posts")
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Content = req.Content
	post.Excerpt = makeExcerpt(req.Content)

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post and returns how many records were deleted. Only the
// owner or an editor-or-better may delete.
func (s *PostService) Delete(ctx context.Context, user *model.User, id uuid.UUID) (int64, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if !canModify(user, post) {
		return 0, apperror.Unauthorized("you may only delete your own posts")
	}

	count, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, apperror.NotFound("post", id.String())
	}
	return count, nil
}

func canModify(user *model.User, post *model.Post) bool {
	return post.UserID == user.ID || user.Role.AtLeast(model.RoleEditor)
}

func validatePost(req *model.PostRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	return nil
}

// makeExcerpt returns the first 55 words of the content joined with single
// spaces. Shorter content is returned unchanged.
func makeExcerpt(content string) string {
	fields := strings.Fields(content)
	if len(fields) < excerptWords {
		return content
	}
	return strings.Join(fields[:excerptWords], " ")
}
