// Package storage keeps uploaded blobs (pronunciation recordings) on local disk
// until they are forwarded to the backend or purged.
package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/JaimeStill/lingua-web/pkg/lifecycle"
)

var (
	ErrNotFound   = errors.New("storage: key not found")
	ErrInvalidKey = errors.New("storage: invalid key")
	ErrTooLarge   = errors.New("storage: blob exceeds max upload size")
	ErrPermission = errors.New("storage: permission denied")
)

// System stores opaque blobs under slash-separated keys.
type System interface {
	// Store streams r to key, replacing any existing blob, and returns the byte count.
	// Streams larger than the configured limit fail with ErrTooLarge and leave nothing behind.
	Store(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader for key or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// PurgeOlderThan removes blobs last written before cutoff and returns how many.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// MaxSize is the per-blob limit in bytes.
	MaxSize() int64

	Start(lc *lifecycle.Coordinator) error
}
