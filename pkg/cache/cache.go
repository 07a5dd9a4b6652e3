// Package cache stores pipeline results so repeated runs over the same
// machine or graph skip recomputation.
//
// A [Cache] is a byte store with per-entry TTL. Three backends ship with the
// package:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared storage for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys are built by a [Keyer] from content hashes, so identical inputs map
// to the same entry across processes.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store keyed by string. Get reports a miss with ok=false
// and a nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is used by callers that do not configure an expiry.
const DefaultTTL = 24 * time.Hour
