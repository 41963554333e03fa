package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"devblog/internal/model"
)

// SiteRepository persists homepage content: the about block and social links.
type SiteRepository interface {
	// GetAbout returns nil, nil when no about block exists.
	GetAbout(ctx context.Context) (*model.About, error)
	SaveAbout(ctx context.Context, about *model.About) (created bool, err error)
	ListSocialLinks(ctx context.Context) ([]model.SocialLink, error)
	ReplaceSocialLinks(ctx context.Context, links []model.SocialLink) error
}

type siteRepository struct {
	db *gorm.DB
}

// NewSiteRepository creates a new site repository.
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) GetAbout(ctx context.Context) (*model.About, error) {
	var about model.About
	err := r.db.WithContext(ctx).Order("id").First(&about).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &about, nil
}

// SaveAbout updates the existing about block in place or creates the first one.
func (r *siteRepository) SaveAbout(ctx context.Context, about *model.About) (bool, error) {
	existing, err := r.GetAbout(ctx)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return true, r.db.WithContext(ctx).Create(about).Error
	}
	existing.Heading = about.Heading
	existing.Description = about.Description
	if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
		return false, err
	}
	*about = *existing
	return false, nil
}

func (r *siteRepository) ListSocialLinks(ctx context.Context) ([]model.SocialLink, error) {
	var links []model.SocialLink
	if err := r.db.WithContext(ctx).Order("id").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// ReplaceSocialLinks deletes every link and inserts links in order, atomically.
func (r *siteRepository) ReplaceSocialLinks(ctx context.Context, links []model.SocialLink) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.SocialLink{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}
