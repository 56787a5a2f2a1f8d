package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps agreement documents under a directory on disk. Used for
// local development; the public URL points at the server's static file route.
type LocalStore struct {
	baseDir string
	baseURL string
}

func NewLocalStore(baseDir, baseURL string) *LocalStore {
	if baseDir == "" {
		panic("local store requires baseDir")
	}
	return &LocalStore{baseDir: baseDir, baseURL: baseURL}
}

func (s *LocalStore) Upload(ctx context.Context, path string, contents io.Reader) error {
	path = normalizePath(path)
	if path == "" {
		return fmt.Errorf("object path is required")
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create object %q: %w", path, err)
	}

	if _, err := io.Copy(f, contents); err != nil {
		_ = f.Close()
		return fmt.Errorf("write object %q: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("finalize object %q: %w", path, err)
	}

	return nil
}

func (s *LocalStore) Remove(ctx context.Context, path string) error {
	path = normalizePath(path)
	if path == "" {
		return fmt.Errorf("object path is required")
	}

	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(path)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object %q: %w", path, err)
	}

	return nil
}

func (s *LocalStore) PublicURL(path string) string {
	return s.baseURL + "/" + normalizePath(path)
}

var _ ObjectStore = (*LocalStore)(nil)
