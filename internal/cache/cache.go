package cache

import (
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache closed")

// Cache memoizes raw upstream responses for a bounded time.
// Entries older than the configured TTL are never returned. A miss is
// reported as (nil, false, nil); a non-nil error means the lookup itself failed.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, body []byte) error
	Purge() (int, error)
	Close() error
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// Options configures a cache implementation.
type Options struct {
	TTL        time.Duration
	SQLitePath string
	Now        Clock
}

// New picks an implementation: noop when TTL is zero, SQLite when a path is
// configured, memory otherwise.
func New(opts Options) (Cache, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	switch {
	case opts.TTL <= 0:
		return NewNoopCache(), nil
	case opts.SQLitePath != "":
		return NewSQLiteCache(opts.SQLitePath, opts.TTL, opts.Now)
	default:
		return NewMemoryCache(opts.TTL, opts.Now), nil
	}
}

func expired(storedAt, now time.Time, ttl time.Duration) bool {
	return now.Sub(storedAt) >= ttl
}
