// Package cache stores computed layouts and rendered artifacts.
//
// Layout computation is cheap, but rendering (PNG collages in particular,
// which decode and scale every source image) is not. The pipeline caches both
// stages behind the [Cache] interface so the CLI and the HTTP server can share
// the same logic with different backends:
//
//   - [FileCache]: one JSON file per entry under ~/.cache/albumgrid/ (CLI)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: caching disabled
//
// Cache keys are produced by a [Keyer] so that callers never concatenate key
// strings by hand. [ScopedKeyer] prefixes every key for multi-tenant setups.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry type.
const (
	// TTLLayout is how long computed layouts are kept. Layouts are pure
	// functions of their input, so the TTL only bounds storage growth.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts are kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the data stored under key.
	// A miss is reported as (nil, false, nil), not as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
