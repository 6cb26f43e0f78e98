package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrRemoteNotFound means the referenced key does not exist on the backend.
// When the caller expected the object to exist this signals metadata/remote
// divergence and must be surfaced, not swallowed.
var ErrRemoteNotFound = errors.New("remote object not found")

// ErrRemoteUnavailable is a transient backend failure; callers may retry.
var ErrRemoteUnavailable = errors.New("remote storage unavailable")

// RemoteStorage is a pure byte-and-key mirror; it owns no metadata.
// Folder entities have no remote object of their own, so folder operations
// use the prefix variants.
type RemoteStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64) error
	PublicLink(ctx context.Context, key string) (string, error)
	Move(ctx context.Context, oldKey string, newKey string) error
	MovePrefix(ctx context.Context, oldPrefix string, newPrefix string) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	RecursiveSize(ctx context.Context, prefix string) (int64, error)
}

// RetryPolicy retries transient failures with exponential backoff.
// Only ErrRemoteUnavailable is retried; ErrRemoteNotFound and context
// cancellation surface immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := p.BaseDelay
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		err = op()
		if err == nil || !errors.Is(err, ErrRemoteUnavailable) {
			return err
		}
	}
	return err
}
