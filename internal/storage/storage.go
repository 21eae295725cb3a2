// Package storage persists uploaded file bodies and hands back the URL a
// Resource row records as file_url.
package storage

import (
	"context"
	"io"

	"filevault/internal/config"
)

type Storage interface {
	// Save writes the object under key and returns its public URL.
	Save(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// New picks the backend from config: local disk by default, S3 when
// STORAGE_TYPE=s3.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	if cfg.StorageType == "s3" {
		return NewS3(ctx, cfg)
	}
	return NewLocal(cfg.UploadDir)
}
