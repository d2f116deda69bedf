// Package storage keeps uploaded people photos either on local disk or in a
// Google Cloud Storage bucket, addressed by public URL.
package storage

import (
	"context"
	"errors"
	"fmt"

	"rfid-backoffice/internal/config"
)

// ErrForeignURL is returned when asked to delete a URL the store did not issue.
var ErrForeignURL = errors.New("url not managed by this store")

type ImageStore interface {
	// Put stores data under name and returns its public URL.
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Delete removes the object behind url. A missing object is not an error.
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStore(cfg.ImagePath, cfg.ImagePublicURL), nil
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentials)
	}
	return nil, fmt.Errorf("bilinmeyen STORAGE_DRIVER: %q", cfg.StorageDriver)
}
