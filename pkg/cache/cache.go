// Package cache stores answers given at interactive prompts so that later
// runs over the same installation do not ask again.
//
// [Cache] is a small byte-oriented key-value interface with a file-backed
// implementation ([FileCache]) for the CLI and a no-op implementation
// ([NullCache]) used when persistence is disabled. [Answers] layers typed
// accessors for main-file and global-name answers on top of any Cache.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}
