// Package cache provides the shared result cache: a Store abstraction with
// Redis and in-memory backends, deterministic key derivation, and a typed
// wrapper for generation results. A missing or unreachable cache is never an
// error; callers fall back to computing fresh results.
package cache

import (
	"context"
	"time"
)

// Store is a TTL key/value store. Get returns (nil, nil) on a miss; absence
// is not an error. Implementations must be safe for concurrent use;
// last-write-wins on racing Sets is acceptable.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes all keys with the given prefix and returns how
	// many were deleted.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
