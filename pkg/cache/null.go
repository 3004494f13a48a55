package cache

import (
	"context"
	"time"
)

// NullCache stores nothing, so every render settles from scratch. The CLI
// falls back to it for --no-cache and when no cache directory resolves.
type NullCache struct{}

var _ Cache = NullCache{}

func NewNullCache() NullCache { return NullCache{} }

// Get misses. A done ctx is reported like any other backend would.
func (NullCache) Get(ctx context.Context, _ string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

// Set drops data.
func (NullCache) Set(ctx context.Context, _ string, _ []byte, _ time.Duration) error {
	return ctx.Err()
}

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
