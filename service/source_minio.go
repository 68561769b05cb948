package service

import (
	"context"
	"fmt"
	"io"

	"github.com/AnTengye/casebrief/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioSource reads the dataset object from a MinIO bucket.
type MinioSource struct {
	client *minio.Client
	bucket string
	object string
	config *config.MinioConfig
}

func NewMinioSource(cfg *config.MinioConfig) (*MinioSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioSource{
		client: client,
		bucket: cfg.Bucket,
		object: cfg.Object,
		config: cfg,
	}, nil
}

func (s *MinioSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, s.object, minio.StatObjectOptions{}); err != nil {
		return nil, fmt.Errorf("failed to stat dataset object: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset object: %w", err)
	}
	return obj, nil
}

// Location returns the object URL (reachable only if the bucket policy allows).
func (s *MinioSource) Location() string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, s.object)
}
