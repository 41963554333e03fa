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

// CategoryService manages categories from the dashboard.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uint) (*model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type categoryService struct {
	categories repository.CategoryRepository
	posts      repository.PostRepository
	cache      *cache.Client
}

// NewCategoryService creates a category service.
func NewCategoryService(categories repository.CategoryRepository, posts repository.PostRepository, cache *cache.Client) CategoryService {
	return &categoryService{categories: categories, posts: posts, cache: cache}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

// ensureUniqueName rejects blank names and names used by another category.
func (s *categoryService) ensureUniqueName(ctx context.Context, name string, excludeID uint) error {
	if name == "" {
		return apperrors.ErrCategoryNameRequired
	}
	exists, err := s.categories.NameExists(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

func (s *categoryService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if err := s.ensureUniqueName(ctx, name, 0); err != nil {
		return nil, err
	}

	category := &model.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uint, name string) (*model.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := s.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	invalidateHome(ctx, s.cache)
	return category, nil
}

// DeleteCategory refuses to delete a category that posts still reference.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	inUse, err := s.posts.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if inUse > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	invalidateHome(ctx, s.cache)
	return nil
}
