package service

import (
	"context"
	"strings"

	"commune/internal/models"
	"commune/internal/repository"
	"commune/internal/validation"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PostService provides post CRUD and feed business logic.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// CreatePostInput is the input for creating a post.
type CreatePostInput struct {
	Username string
	Header   string
	Text     string
	Image    []byte
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// CreatePost persists a post owned by the user. The creation timestamp is
// assigned by the server and immutable afterwards.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateHeader(in.Header, models.MaxHeaderLen); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	post := &models.Post{
		UserID: user.ID,
		Header: in.Header,
		Text:   in.Text,
		Image:  in.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	post.Username = user.Username
	return post, nil
}

// DeletePost removes the post. Only the owner may delete it.
func (s *PostService) DeletePost(ctx context.Context, username string, postID uint) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != user.ID {
		return models.NewForbiddenError("Users can only delete their own posts")
	}

	return s.postRepo.Delete(ctx, postID)
}

// ListUserPosts returns the user's own posts, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, username string, page, size int) ([]*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	page, size, err = normalizePagination(page, size)
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByUserID(ctx, user.ID, size, page*size)
}

// ActivityFeed returns posts authored by users in the requester's
// subscription set, newest first.
func (s *PostService) ActivityFeed(ctx context.Context, username string, page, size int) ([]*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	page, size, err = normalizePagination(page, size)
	if err != nil {
		return nil, err
	}
	return s.postRepo.ActivityFeed(ctx, user.ID, size, page*size)
}

// normalizePagination rejects negative pages and clamps the page size
// to [1, 100]. A zero size falls back to the default.
func normalizePagination(page, size int) (int, int, error) {
	if page < 0 {
		return 0, 0, models.NewValidationError("page must not be negative")
	}
	if size == 0 {
		size = defaultPageSize
	}
	if size < 1 {
		size = 1
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size, nil
}
