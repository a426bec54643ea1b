package providers

import (
	"context"
	"io"
	"time"
)

// FileStorage stores uploaded files
type FileStorage interface {
	// Put writes size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// URL returns a time-limited download link for key.
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
