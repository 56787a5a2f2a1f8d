package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// GCSStore stores agreement documents in a Google Cloud Storage bucket.
// The bucket is expected to allow public reads; write access comes from the
// service-account credentials the process runs with.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	if client == nil {
		panic("gcs store requires client")
	}
	if strings.TrimSpace(bucket) == "" {
		panic("gcs store requires bucket")
	}
	return &GCSStore{client: client, bucket: bucket}
}

func (s *GCSStore) Upload(ctx context.Context, path string, contents io.Reader) error {
	path = normalizePath(path)
	if path == "" {
		return fmt.Errorf("object path is required")
	}

	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = "application/pdf"

	if _, err := io.Copy(w, contents); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %q: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize object %q: %w", path, err)
	}

	return nil
}

func (s *GCSStore) Remove(ctx context.Context, path string) error {
	path = normalizePath(path)
	if path == "" {
		return fmt.Errorf("object path is required")
	}

	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete object %q: %w", path, err)
	}

	return nil
}

func (s *GCSStore) PublicURL(path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, normalizePath(path))
}

func normalizePath(path string) string {
	return strings.TrimPrefix(strings.TrimSpace(path), "/")
}

var _ ObjectStore = (*GCSStore)(nil)
