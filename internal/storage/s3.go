// Package storage issues presigned upload URLs for featured images on an
// S3-compatible bucket (AWS S3 or MinIO).
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"devblog/internal/config"
)

// UploadExpiry is how long a presigned PUT stays valid.
const UploadExpiry = 15 * time.Minute

// Upload is a presigned PUT for one object.
type Upload struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

// Store presigns uploads into one bucket.
type Store struct {
	bucket  string
	presign *s3.PresignClient
	now     func() time.Time
}

// New builds a Store from cfg. Presigning is local; no request reaches the bucket.
func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO serves buckets by path, not subdomain.
			o.UsePathStyle = true
		}
	})

	return &Store{
		bucket:  cfg.Bucket,
		presign: s3.NewPresignClient(client),
		now:     time.Now,
	}, nil
}

// PresignUpload returns a fresh object key under posts/ and a PUT URL for it.
// The original file extension is kept, lower-cased.
func (s *Store) PresignUpload(ctx context.Context, filename string) (*Upload, error) {
	key := objectKey(s.now(), filename)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(UploadExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign put %s: %w", key, err)
	}

	return &Upload{Key: key, UploadURL: req.URL}, nil
}

// objectKey mirrors the posts/YYYY/M/D layout featured images were stored under.
func objectKey(now time.Time, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	return fmt.Sprintf("posts/%d/%d/%d/%s%s", now.Year(), int(now.Month()), now.Day(), uuid.NewString(), ext)
}
