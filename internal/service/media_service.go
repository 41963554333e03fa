package service

import (
	"context"
	"strings"

	apperrors "devblog/internal/errors"
	"devblog/internal/storage"
)

// Presigner issues upload URLs; *storage.Store implements it.
type Presigner interface {
	PresignUpload(ctx context.Context, filename string) (*storage.Upload, error)
}

// MediaService hands out featured-image upload URLs.
type MediaService interface {
	PresignUpload(ctx context.Context, filename string) (*storage.Upload, error)
}

type mediaService struct {
	presigner Presigner
}

// NewMediaService creates a media service. A nil presigner means storage is
// not configured and every call returns ErrStorageDisabled.
func NewMediaService(presigner Presigner) MediaService {
	return &mediaService{presigner: presigner}
}

func (s *mediaService) PresignUpload(ctx context.Context, filename string) (*storage.Upload, error) {
	if s.presigner == nil {
		return nil, apperrors.ErrStorageDisabled
	}
	return s.presigner.PresignUpload(ctx, strings.TrimSpace(filename))
}
