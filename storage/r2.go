package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ping-point/api-go/config"
)

// R2Store wraps the S3-compatible Cloudflare R2 bucket used for review
// photos.
type R2Store struct {
	client *s3.Client
	cfg    config.R2Config
}

func NewR2Store(cfg config.R2Config) *R2Store {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: cfg.Region,
	})

	return &R2Store{client: client, cfg: cfg}
}

// ObjectKey builds a per-user key so ownership can be checked from the key
// alone: uploads/{userID}/{timestamp}_{uuid}{ext}.
func (s *R2Store) ObjectKey(userID uint, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("uploads/%d/%d_%s%s", userID, time.Now().Unix(), uuid.New().String(), ext)
}

// PublicURL returns the CDN-facing URL for a stored object.
func (s *R2Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.cfg.PublicURL, key)
}

// PresignPut returns a time-limited URL the client can PUT the file to
// directly, keeping image bytes off the API server.
func (s *R2Store) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Exists reports whether an object was actually uploaded.
func (s *R2Store) Exists(ctx context.Context, key string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *R2Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(key),
	})
	return err
}
