package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AnTengye/casebrief/config"
)

// ErrUnknownSource is returned for an unsupported dataset.source value.
var ErrUnknownSource = errors.New("unknown dataset source")

// Source opens the raw CSV dataset.
type Source interface {
	// Open returns a reader over the CSV bytes. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Location describes where the dataset is read from, for logs and health.
	Location() string
}

// NewSource builds the Source selected by cfg.Dataset.Source. ctx bounds any
// setup the source does before Open, such as loading AWS credentials.
func NewSource(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.Dataset.Source {
	case config.SourceLocal:
		return NewLocalSource(cfg.Dataset.Path), nil
	case config.SourceMinio:
		return NewMinioSource(&cfg.Minio)
	case config.SourceS3:
		return NewS3Source(ctx, &cfg.S3)
	case config.SourceHTTP:
		return NewHTTPSource(cfg.HTTP.URL, cfg.HTTP.Token, time.Duration(cfg.HTTP.TimeoutSec)*time.Second), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, cfg.Dataset.Source)
	}
}

// LocalSource reads the dataset from the filesystem.
type LocalSource struct {
	path string
}

func NewLocalSource(path string) *LocalSource {
	return &LocalSource{path: path}
}

func (s *LocalSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("dataset not found: %s", s.path)
		}
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	return file, nil
}

func (s *LocalSource) Location() string {
	return s.path
}
