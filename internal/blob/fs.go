package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FSStore writes documents to a local directory. Used by the CLI's generate
// command so a local run needs no object storage.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem-backed store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FSStore{root: dir}, nil
}

// Upload writes data to root/category/name.
func (s *FSStore) Upload(_ context.Context, data []byte, name, category string) (Object, error) {
	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Object{}, fmt.Errorf("failed to create category directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return Object{Path: path, SizeBytes: int64(len(data))}, nil
}

// PresignLink returns a file URL; local files do not expire.
func (s *FSStore) PresignLink(_ context.Context, path string, _ time.Duration) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return "file://" + abs, nil
}
