// Package cache provides byte caches for downloaded sheets and rendered
// diagrams.
//
// Three backends implement [Cache]:
//
//   - [FileCache] stores entries as JSON files under a directory (CLI default)
//   - [RedisCache] stores entries in Redis, shared between dashboard replicas
//   - [NullCache] never stores anything (--no-cache)
//
// Keys come from a [Keyer] so every caller derives the same key for the
// same sheet URL or rendered artifact.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default time-to-live per entry type.
const (
	TTLSource   = time.Hour
	TTLArtifact = 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// ErrUnknownBackend is returned by [Open] for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero or less in Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Options selects and configures a cache backend.
type Options struct {
	Backend   string // "file", "redis" or "none"; empty means "file"
	Dir       string // FileCache directory
	RedisAddr string // RedisCache address, host:port
	Prefix    string // RedisCache key prefix
}

// Open creates the cache described by opts.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.RedisAddr, opts.Prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
