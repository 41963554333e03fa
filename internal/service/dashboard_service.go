package service

import (
	"context"
	"fmt"

	"devblog/internal/repository"
)

// Overview holds the dashboard landing counts.
type Overview struct {
	CategoryCount int64 `json:"category_count"`
	PostCount     int64 `json:"post_count"`
}

// DashboardService serves the dashboard landing page.
type DashboardService interface {
	Overview(ctx context.Context) (*Overview, error)
}

type dashboardService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(posts repository.PostRepository, categories repository.CategoryRepository) DashboardService {
	return &dashboardService{posts: posts, categories: categories}
}

func (s *dashboardService) Overview(ctx context.Context) (*Overview, error) {
	categories, err := s.categories.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	posts, err := s.posts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	return &Overview{CategoryCount: categories, PostCount: posts}, nil
}
