package ports

import (
	"context"
	"io"
)

// ObjectStorage is the backend's file storage capability, reduced to what the
// upload integration needs.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	PublicURL(key string) string
}

// LoginThrottle limits login attempts per caller key (typically client IP).
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
}
