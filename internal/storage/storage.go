package storage

import (
	"context"
	"fmt"
	"time"
)

// Supported object store drivers
const (
	DriverS3    = "s3"
	DriverMinio = "minio"
)

// ObjectStore handles render artifact storage
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key string, contentType string, data []byte) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Config holds configuration for an object store
type Config struct {
	Driver    string
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	// URLExpiry is how long download URLs stay valid
	URLExpiry time.Duration
}

// New creates the object store selected by cfg.Driver
func New(cfg Config) (ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 24 * time.Hour
	}

	switch cfg.Driver {
	case "", DriverS3:
		return NewS3Store(cfg)
	case DriverMinio:
		return NewMinioStore(cfg)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// allowedContentTypes are the artifact types a render produces
var allowedContentTypes = map[string]bool{
	"image/png": true,
	"text/html": true,
}

func validateContentType(contentType string) error {
	if !allowedContentTypes[contentType] {
		return fmt.Errorf("invalid content type: %s. Supported types: image/png, text/html", contentType)
	}
	return nil
}
