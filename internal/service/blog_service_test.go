package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "devblog/internal/errors"
	"devblog/internal/model"
)

func TestBlogService_Home(t *testing.T) {
	featured := []model.Post{publishedPost(1, "Featured")}
	all := []model.Post{publishedPost(2, "Newest"), publishedPost(1, "Featured")}

	posts := new(MockPostRepository)
	posts.On("ListPublished", mock.Anything, true).Return(featured, nil)
	posts.On("ListPublished", mock.Anything, false).Return(all, nil)
	site := new(MockSiteRepository)
	site.On("GetAbout", mock.Anything).Return(nil, nil)
	site.On("ListSocialLinks", mock.Anything).Return(nil, nil)

	page, err := NewBlogService(posts, site, nil).Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, toPublicPosts(featured), page.FeaturedPosts)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "Newest", page.Posts[0].Title)
	assert.Equal(t, "alice", page.Posts[0].Author.Username)
	assert.Nil(t, page.About)
	assert.NotNil(t, page.SocialLinks)
	assert.Empty(t, page.SocialLinks)
}

func TestBlogService_Home_EmptyBlog(t *testing.T) {
	posts := new(MockPostRepository)
	posts.On("ListPublished", mock.Anything, mock.Anything).Return(nil, nil)
	site := new(MockSiteRepository)
	site.On("GetAbout", mock.Anything).Return(&model.About{Heading: "About"}, nil)
	site.On("ListSocialLinks", mock.Anything).Return([]model.SocialLink{{Platform: "Github"}}, nil)

	page, err := NewBlogService(posts, site, nil).Home(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, page.FeaturedPosts)
	assert.NotNil(t, page.Posts)
	assert.Equal(t, "About", page.About.Heading)
	assert.Len(t, page.SocialLinks, 1)
}

func TestBlogService_Home_RepositoryError(t *testing.T) {
	posts := new(MockPostRepository)
	posts.On("ListPublished", mock.Anything, true).Return(nil, errors.New("db down"))

	_, err := NewBlogService(posts, new(MockSiteRepository), nil).Home(context.Background())
	assert.Error(t, err)
}

func TestBlogService_GetPublishedPost(t *testing.T) {
	posts := new(MockPostRepository)
	post := publishedPost(4, "Hello")
	posts.On("FindPublishedByID", mock.Anything, uint(4)).Return(&post, nil)
	posts.On("FindPublishedByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewBlogService(posts, new(MockSiteRepository), nil)

	got, err := svc.GetPublishedPost(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "Go", got.Category.Name)

	_, err = svc.GetPublishedPost(context.Background(), 5)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}
