// Package blob stores rendered documents and hands out time-limited
// download links.
package blob

import (
	"context"
	"time"
)

// Object describes one stored document.
type Object struct {
	Path      string
	SizeBytes int64
}

// Store is the blob storage capability consumed by the pipeline.
type Store interface {
	// Upload stores data under category/name and returns its location.
	Upload(ctx context.Context, data []byte, name, category string) (Object, error)
	// PresignLink returns a retrievable URL for a stored object, valid for
	// the given duration.
	PresignLink(ctx context.Context, path string, expiresIn time.Duration) (string, error)
}
