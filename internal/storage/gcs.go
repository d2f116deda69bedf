package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const (
	gcsPublicHost = "https://storage.googleapis.com/"
	gcsPrefix     = "people/"
)

type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore prefers ADC (service account / GOOGLE_APPLICATION_CREDENTIALS);
// credentialsJSON overrides it, e.g. locally.
func NewGCSStore(ctx context.Context, bucket, credentialsJSON string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client oluşturulamadı: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) urlPrefix() string {
	return gcsPublicHost + s.bucket + "/"
}

func (s *GCSStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("geçersiz dosya adı: %q", name)
	}
	object := gcsPrefix + name
	wc := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to upload bytes to Google Cloud Storage: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}
	return s.urlPrefix() + object, nil
}

func (s *GCSStore) objectKey(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.urlPrefix())
	if !ok {
		return "", false
	}
	name, ok := strings.CutPrefix(key, gcsPrefix)
	return key, ok && validName(name)
}

func (s *GCSStore) Owns(url string) bool {
	_, ok := s.objectKey(url)
	return ok
}

func (s *GCSStore) Delete(ctx context.Context, url string) error {
	key, ok := s.objectKey(url)
	if !ok {
		return ErrForeignURL
	}
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
