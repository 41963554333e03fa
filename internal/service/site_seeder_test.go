package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devblog/internal/model"
)

func TestSiteSeeder_SyncSite(t *testing.T) {
	site := new(MockSiteRepository)
	site.On("SaveAbout", mock.Anything, mock.MatchedBy(func(a *model.About) bool {
		return a.ID == 1 && a.Heading == "About DevBlog"
	})).Return(true, nil)
	site.On("ReplaceSocialLinks", mock.Anything, mock.MatchedBy(func(links []model.SocialLink) bool {
		return len(links) == 3 && links[0].Platform == "Facebook" && links[2].Platform == "Linkedin"
	})).Return(nil)

	require.NoError(t, NewSiteSeeder(site, new(MockAccountRepository), nil).SyncSite(context.Background()))
	site.AssertExpectations(t)
}

func TestSiteSeeder_EnsureAdmin(t *testing.T) {
	t.Run("creates superuser", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)
		accounts.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Account) bool {
			return a.Email == "admin@example.com" && a.IsStaff && a.IsSuperuser && a.IsActive
		})).Return(nil)

		created, err := NewSiteSeeder(new(MockSiteRepository), accounts, nil).
			EnsureAdmin(context.Background(), "admin", "Admin@Example.com", "admin123")
		require.NoError(t, err)
		assert.True(t, created)
		accounts.AssertExpectations(t)
	})

	t.Run("refreshes existing", func(t *testing.T) {
		existing := &model.Account{ID: 1, Username: "admin", Email: "old@example.com", PasswordHash: "stale"}
		accounts := new(MockAccountRepository)
		accounts.On("FindByUsername", mock.Anything, "admin").Return(existing, nil)
		accounts.On("Update", mock.Anything, existing).Return(nil)

		created, err := NewSiteSeeder(new(MockSiteRepository), accounts, nil).
			EnsureAdmin(context.Background(), "admin", "admin@example.com", "admin123")
		require.NoError(t, err)
		assert.False(t, created)
		assert.True(t, existing.IsSuperuser)
		assert.Equal(t, "old@example.com", existing.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte("admin123")))
	})
}
