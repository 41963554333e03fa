package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"devblog/internal/cache"
	apperrors "devblog/internal/errors"
	"devblog/internal/model"
	"devblog/internal/repository"
)

// PostInput is the dashboard post form.
type PostInput struct {
	Title            string
	CategoryID       uint
	FeaturedImage    string
	ShortDescription string
	Body             string
	Status           model.PostStatus // empty means Draft
	IsFeatured       bool
}

// PostService manages posts from the dashboard.
type PostService interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, id uint) (*model.Post, error)
	CreatePost(ctx context.Context, authorID uint, in PostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, id uint, in PostInput) (*model.Post, error)
	DeletePost(ctx context.Context, id uint) error
}

type postService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	cache      *cache.Client
}

// NewPostService creates a post service.
func NewPostService(posts repository.PostRepository, categories repository.CategoryRepository, cache *cache.Client) PostService {
	return &postService{posts: posts, categories: categories, cache: cache}
}

func (s *postService) ListPosts(ctx context.Context) ([]model.Post, error) {
	return s.posts.List(ctx)
}

func (s *postService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

// validate normalizes title and status and checks the category exists.
func (s *postService) validate(ctx context.Context, in *PostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperrors.ErrTitleRequired
	}
	if in.Status == "" {
		in.Status = model.PostStatusDraft
	}
	if !in.Status.Valid() {
		return apperrors.ErrInvalidStatus
	}

	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUnknownCategory
		}
		return fmt.Errorf("find category: %w", err)
	}
	return nil
}

func applyPostInput(post *model.Post, in PostInput) {
	post.Title = in.Title
	post.CategoryID = in.CategoryID
	post.FeaturedImage = in.FeaturedImage
	post.ShortDescription = in.ShortDescription
	post.Body = in.Body
	post.Status = in.Status
	post.IsFeatured = in.IsFeatured
}

func (s *postService) CreatePost(ctx context.Context, authorID uint, in PostInput) (*model.Post, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	post := &model.Post{AuthorID: authorID}
	applyPostInput(post, in)
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	invalidateHome(ctx, s.cache)

	return s.GetPost(ctx, post.ID)
}

func (s *postService) UpdatePost(ctx context.Context, id uint, in PostInput) (*model.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	applyPostInput(post, in)
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	invalidateHome(ctx, s.cache)

	return s.GetPost(ctx, id)
}

func (s *postService) DeletePost(ctx context.Context, id uint) error {
	if _, err := s.GetPost(ctx, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	invalidateHome(ctx, s.cache)
	return nil
}
