package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devblog/internal/cache"
	"devblog/internal/model"
	"devblog/internal/repository"
)

const (
	aboutHeading     = "About DevBlog"
	aboutDescription = "DevBlog is a modern publishing platform where technology meets creativity. We provide deep dives into software architecture, frontend elegance, and the evolving digital landscape, helping developers build more meaningful web experiences."
)

// DefaultSocialLinks are the footer links the site ships with, in display order.
var DefaultSocialLinks = []model.SocialLink{
	{Platform: "Facebook", Link: "https://facebook.com"},
	{Platform: "Github", Link: "https://github.com"},
	{Platform: "Linkedin", Link: "https://linkedin.com"},
}

// SiteSeeder brings site content and the admin account to a known state.
type SiteSeeder struct {
	site     repository.SiteRepository
	accounts repository.AccountRepository
	cache    *cache.Client
}

// NewSiteSeeder creates a seeder.
func NewSiteSeeder(site repository.SiteRepository, accounts repository.AccountRepository, cache *cache.Client) *SiteSeeder {
	return &SiteSeeder{site: site, accounts: accounts, cache: cache}
}

// SyncSite upserts the about block and replaces the social links.
func (s *SiteSeeder) SyncSite(ctx context.Context) error {
	if _, err := s.site.SaveAbout(ctx, &model.About{
		ID:          1,
		Heading:     aboutHeading,
		Description: aboutDescription,
	}); err != nil {
		return fmt.Errorf("save about: %w", err)
	}

	links := make([]model.SocialLink, len(DefaultSocialLinks))
	copy(links, DefaultSocialLinks)
	if err := s.site.ReplaceSocialLinks(ctx, links); err != nil {
		return fmt.Errorf("replace social links: %w", err)
	}

	invalidateHome(ctx, s.cache)
	return nil
}

// EnsureAdmin creates the superuser, or resets its password and privileges
// when it already exists. It reports whether the account was created.
func (s *SiteSeeder) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return false, err
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	if account == nil {
		email = NormalizeEmail(email)
		if err := CheckEmailShape(email); err != nil {
			return false, err
		}
		account = &model.Account{
			Username:     username,
			Email:        email,
			PasswordHash: hashed,
			IsActive:     true,
			IsStaff:      true,
			IsSuperuser:  true,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return false, fmt.Errorf("create admin: %w", err)
		}
		return true, nil
	}

	account.PasswordHash = hashed
	account.IsActive = true
	account.IsStaff = true
	account.IsSuperuser = true
	if err := s.accounts.Update(ctx, account); err != nil {
		return false, fmt.Errorf("update admin: %w", err)
	}
	return false, nil
}
