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
	"devblog/internal/storage"
)

func TestDashboardService_Overview(t *testing.T) {
	posts := new(MockPostRepository)
	posts.On("Count", mock.Anything).Return(int64(12), nil)
	categories := new(MockCategoryRepository)
	categories.On("Count", mock.Anything).Return(int64(3), nil)

	overview, err := NewDashboardService(posts, categories).Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Overview{CategoryCount: 3, PostCount: 12}, overview)
}

func TestCategoryService_Create(t *testing.T) {
	t.Run("trims and creates", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("NameExists", mock.Anything, "Go", uint(0)).Return(false, nil)
		categories.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Category) bool { return c.Name == "Go" })).Return(nil)

		category, err := NewCategoryService(categories, new(MockPostRepository), nil).CreateCategory(context.Background(), "  Go ")
		require.NoError(t, err)
		assert.Equal(t, "Go", category.Name)
		categories.AssertExpectations(t)
	})

	t.Run("duplicate", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("NameExists", mock.Anything, "Go", uint(0)).Return(true, nil)

		_, err := NewCategoryService(categories, new(MockPostRepository), nil).CreateCategory(context.Background(), "Go")
		assert.ErrorIs(t, err, apperrors.ErrDuplicateCategory)
		categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("blank name", func(t *testing.T) {
		categories := new(MockCategoryRepository)

		_, err := NewCategoryService(categories, new(MockPostRepository), nil).CreateCategory(context.Background(), "   ")
		assert.ErrorIs(t, err, apperrors.ErrCategoryNameRequired)
		categories.AssertNotCalled(t, "NameExists", mock.Anything, mock.Anything, mock.Anything)
		categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique index race", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("NameExists", mock.Anything, "Go", uint(0)).Return(false, nil)
		categories.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(gorm.ErrDuplicatedKey)

		_, err := NewCategoryService(categories, new(MockPostRepository), nil).CreateCategory(context.Background(), "Go")
		assert.ErrorIs(t, err, apperrors.ErrDuplicateCategory)
	})
}

func TestCategoryService_Update(t *testing.T) {
	categories := new(MockCategoryRepository)
	categories.On("FindByID", mock.Anything, uint(2)).Return(&model.Category{ID: 2, Name: "Golang"}, nil)
	categories.On("NameExists", mock.Anything, "Go", uint(2)).Return(false, nil)
	categories.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
	categories.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewCategoryService(categories, new(MockPostRepository), nil)

	category, err := svc.UpdateCategory(context.Background(), 2, "Go")
	require.NoError(t, err)
	assert.Equal(t, "Go", category.Name)

	_, err = svc.UpdateCategory(context.Background(), 9, "Go")
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	_, err = svc.UpdateCategory(context.Background(), 2, " \t ")
	assert.ErrorIs(t, err, apperrors.ErrCategoryNameRequired)
}

func TestCategoryService_Delete(t *testing.T) {
	t.Run("in use", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("FindByID", mock.Anything, uint(1)).Return(&model.Category{ID: 1}, nil)
		posts := new(MockPostRepository)
		posts.On("CountByCategory", mock.Anything, uint(1)).Return(int64(2), nil)

		err := NewCategoryService(categories, posts, nil).DeleteCategory(context.Background(), 1)
		assert.ErrorIs(t, err, apperrors.ErrCategoryInUse)
		categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unused", func(t *testing.T) {
		categories := new(MockCategoryRepository)
		categories.On("FindByID", mock.Anything, uint(1)).Return(&model.Category{ID: 1}, nil)
		categories.On("Delete", mock.Anything, uint(1)).Return(nil)
		posts := new(MockPostRepository)
		posts.On("CountByCategory", mock.Anything, uint(1)).Return(int64(0), nil)

		require.NoError(t, NewCategoryService(categories, posts, nil).DeleteCategory(context.Background(), 1))
		categories.AssertExpectations(t)
	})
}

func TestPostService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         PostInput
		setupMock     func(*MockPostRepository, *MockCategoryRepository)
		expectedError error
	}{
		{
			name:  "defaults to draft",
			input: PostInput{Title: " Hello ", CategoryID: 1, Body: "body"},
			setupMock: func(p *MockPostRepository, c *MockCategoryRepository) {
				c.On("FindByID", mock.Anything, uint(1)).Return(&model.Category{ID: 1}, nil)
				p.On("Create", mock.Anything, mock.MatchedBy(func(post *model.Post) bool {
					return post.Title == "Hello" && post.Status == model.PostStatusDraft && post.AuthorID == 7
				})).Run(func(args mock.Arguments) { args.Get(1).(*model.Post).ID = 11 }).Return(nil)
				p.On("FindByID", mock.Anything, uint(11)).Return(&model.Post{ID: 11, Title: "Hello", Status: model.PostStatusDraft}, nil)
			},
		},
		{
			name:          "blank title",
			input:         PostInput{Title: "   ", CategoryID: 1},
			setupMock:     func(p *MockPostRepository, c *MockCategoryRepository) {},
			expectedError: apperrors.ErrTitleRequired,
		},
		{
			name:          "invalid status",
			input:         PostInput{Title: "Hello", CategoryID: 1, Status: "Archived"},
			setupMock:     func(p *MockPostRepository, c *MockCategoryRepository) {},
			expectedError: apperrors.ErrInvalidStatus,
		},
		{
			name:  "unknown category",
			input: PostInput{Title: "Hello", CategoryID: 42, Status: model.PostStatusPublished},
			setupMock: func(p *MockPostRepository, c *MockCategoryRepository) {
				c.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			categories := new(MockCategoryRepository)
			tt.setupMock(posts, categories)

			post, err := NewPostService(posts, categories, nil).CreatePost(context.Background(), 7, tt.input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(11), post.ID)
			posts.AssertExpectations(t)
		})
	}
}

func TestPostService_UpdateAndDelete(t *testing.T) {
	posts := new(MockPostRepository)
	categories := new(MockCategoryRepository)
	posts.On("FindByID", mock.Anything, uint(3)).Return(&model.Post{ID: 3, Title: "Old", AuthorID: 1}, nil)
	posts.On("FindByID", mock.Anything, uint(4)).Return(nil, gorm.ErrRecordNotFound)
	categories.On("FindByID", mock.Anything, uint(1)).Return(&model.Category{ID: 1}, nil)
	posts.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Post) bool {
		return p.Title == "New" && p.IsFeatured && p.Status == model.PostStatusPublished && p.AuthorID == 1
	})).Return(nil)
	posts.On("Delete", mock.Anything, uint(3)).Return(nil)

	svc := NewPostService(posts, categories, nil)

	_, err := svc.UpdatePost(context.Background(), 3, PostInput{Title: "New", CategoryID: 1, Status: model.PostStatusPublished, IsFeatured: true})
	require.NoError(t, err)

	_, err = svc.UpdatePost(context.Background(), 4, PostInput{Title: "New", CategoryID: 1})
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)

	require.NoError(t, svc.DeletePost(context.Background(), 3))
	assert.ErrorIs(t, svc.DeletePost(context.Background(), 4), apperrors.ErrPostNotFound)
	posts.AssertExpectations(t)
}

func TestUserService_CreateUser(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("EmailExists", mock.Anything, "staff@example.com", uint(0)).Return(false, nil)
	repo.On("UsernameExists", mock.Anything, "staff", uint(0)).Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Account) bool {
		return a.Email == "staff@example.com" && a.IsStaff && a.IsActive && a.PasswordHash != "secret123"
	})).Return(nil)

	account, err := NewUserService(repo, nil).CreateUser(context.Background(), UserInput{
		Username: "staff",
		Email:    "Staff@Example.com",
		Password: "secret123",
		IsActive: true,
		IsStaff:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "staff", account.Username)
	repo.AssertExpectations(t)
}

func TestUserService_CreateUser_Rejections(t *testing.T) {
	t.Run("blank username", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("EmailExists", mock.Anything, "staff@example.com", uint(0)).Return(false, nil)

		_, err := NewUserService(repo, nil).CreateUser(context.Background(), UserInput{
			Username: " ",
			Email:    "staff@example.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, apperrors.ErrUsernameRequired)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("username taken concurrently", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("EmailExists", mock.Anything, "staff@example.com", uint(0)).Return(false, nil)
		repo.On("UsernameExists", mock.Anything, "staff", uint(0)).Return(false, nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Account")).Return(gorm.ErrDuplicatedKey)

		_, err := NewUserService(repo, nil).CreateUser(context.Background(), UserInput{
			Username: "staff",
			Email:    "staff@example.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("own email is not a duplicate", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("FindByID", mock.Anything, uint(5)).Return(&model.Account{ID: 5, Username: "eve", Email: "eve@example.com", IsActive: true}, nil)
		repo.On("EmailExists", mock.Anything, "eve@example.com", uint(5)).Return(false, nil)
		repo.On("UsernameExists", mock.Anything, "eve", uint(5)).Return(false, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Account")).Return(nil)

		account, err := NewUserService(repo, nil).UpdateUser(context.Background(), 5, UserInput{
			Username:  "eve",
			Email:     "EVE@example.com",
			FirstName: "Eve",
			IsActive:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Eve", account.FirstName)
	})

	t.Run("email taken by someone else", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("FindByID", mock.Anything, uint(5)).Return(&model.Account{ID: 5}, nil)
		repo.On("EmailExists", mock.Anything, "bob@example.com", uint(5)).Return(true, nil)

		_, err := NewUserService(repo, nil).UpdateUser(context.Background(), 5, UserInput{Username: "eve", Email: "bob@example.com"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_DeactivateUser(t *testing.T) {
	repo := new(MockAccountRepository)
	repo.On("FindByID", mock.Anything, uint(5)).Return(&model.Account{ID: 5, IsActive: true}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(a *model.Account) bool { return !a.IsActive })).Return(nil)
	repo.On("FindByID", mock.Anything, uint(6)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(repo, nil)
	require.NoError(t, svc.DeactivateUser(context.Background(), 5))
	assert.ErrorIs(t, svc.DeactivateUser(context.Background(), 6), apperrors.ErrAccountNotFound)
	repo.AssertExpectations(t)
}

func TestMediaService_PresignUpload(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		_, err := NewMediaService(nil).PresignUpload(context.Background(), "a.png")
		assert.ErrorIs(t, err, apperrors.ErrStorageDisabled)
	})

	t.Run("delegates", func(t *testing.T) {
		presigner := new(MockPresigner)
		presigner.On("PresignUpload", mock.Anything, "a.png").Return(&storage.Upload{Key: "posts/a.png", UploadURL: "http://x"}, nil)

		upload, err := NewMediaService(presigner).PresignUpload(context.Background(), " a.png ")
		require.NoError(t, err)
		assert.Equal(t, "posts/a.png", upload.Key)
	})

	t.Run("presign failure", func(t *testing.T) {
		presigner := new(MockPresigner)
		presigner.On("PresignUpload", mock.Anything, "a.png").Return(nil, errors.New("boom"))

		_, err := NewMediaService(presigner).PresignUpload(context.Background(), "a.png")
		assert.Error(t, err)
	})
}
