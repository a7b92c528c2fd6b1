package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes uploads to a directory on the volume shared with the AI
// backend.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (s *LocalStore) ReadAll(ctx context.Context, storedPath string) ([]byte, error) {
	return os.ReadFile(storedPath)
}

func (s *LocalStore) Delete(ctx context.Context, storedPath string) error {
	err := os.Remove(storedPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
