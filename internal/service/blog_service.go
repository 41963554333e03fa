package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"devblog/internal/cache"
	apperrors "devblog/internal/errors"
	"devblog/internal/model"
	"devblog/internal/repository"
)

const (
	homeCacheKey = "home:feed"
	homeCacheTTL = time.Minute
)

// PostAuthor is the only part of an account shown to anonymous readers.
type PostAuthor struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// PublicPost is a published post as the public pages render it.
type PublicPost struct {
	ID               uint           `json:"id"`
	Title            string         `json:"title"`
	FeaturedImage    string         `json:"featured_image"`
	ShortDescription string         `json:"short_description"`
	Body             string         `json:"body"`
	IsFeatured       bool           `json:"is_featured"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Category         model.Category `json:"category"`
	Author           PostAuthor     `json:"author"`
}

func toPublicPost(p model.Post) PublicPost {
	return PublicPost{
		ID:               p.ID,
		Title:            p.Title,
		FeaturedImage:    p.FeaturedImage,
		ShortDescription: p.ShortDescription,
		Body:             p.Body,
		IsFeatured:       p.IsFeatured,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Category:         p.Category,
		Author:           PostAuthor{ID: p.Author.ID, Username: p.Author.Username},
	}
}

func toPublicPosts(posts []model.Post) []PublicPost {
	out := make([]PublicPost, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPublicPost(p))
	}
	return out
}

// HomePage is everything the homepage renders.
type HomePage struct {
	FeaturedPosts []PublicPost       `json:"featured_posts"`
	Posts         []PublicPost       `json:"posts"`
	About         *model.About       `json:"about"`
	SocialLinks   []model.SocialLink `json:"social_links"`
}

// BlogService serves public, published content.
type BlogService interface {
	Home(ctx context.Context) (*HomePage, error)
	GetPublishedPost(ctx context.Context, id uint) (*PublicPost, error)
}

type blogService struct {
	posts repository.PostRepository
	site  repository.SiteRepository
	cache *cache.Client
}

// NewBlogService creates the public blog service.
func NewBlogService(posts repository.PostRepository, site repository.SiteRepository, cache *cache.Client) BlogService {
	return &blogService{posts: posts, site: site, cache: cache}
}

// invalidateHome drops the cached homepage after any content write.
func invalidateHome(ctx context.Context, c *cache.Client) {
	_ = c.Delete(ctx, homeCacheKey)
}

// Home returns featured and published posts (latest update first), the about block and social links.
func (s *blogService) Home(ctx context.Context) (*HomePage, error) {
	var cached HomePage
	if s.cache.GetJSON(ctx, homeCacheKey, &cached) {
		return &cached, nil
	}

	featured, err := s.posts.ListPublished(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list featured posts: %w", err)
	}
	posts, err := s.posts.ListPublished(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	about, err := s.site.GetAbout(ctx)
	if err != nil {
		return nil, fmt.Errorf("get about: %w", err)
	}
	links, err := s.site.ListSocialLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}

	page := &HomePage{
		FeaturedPosts: toPublicPosts(featured),
		Posts:         toPublicPosts(posts),
		About:         about,
		SocialLinks:   links,
	}
	if page.SocialLinks == nil {
		page.SocialLinks = []model.SocialLink{}
	}

	_ = s.cache.SetJSON(ctx, homeCacheKey, page, homeCacheTTL)
	return page, nil
}

func (s *blogService) GetPublishedPost(ctx context.Context, id uint) (*PublicPost, error) {
	post, err := s.posts.FindPublishedByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	public := toPublicPost(*post)
	return &public, nil
}
