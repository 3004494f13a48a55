// Package cache stores rendered diagram artifacts.
//
// Exports are deterministic for a given graph, options and seed, so a
// rendered SVG or PNG can be reused until the graph or options change.
// Keys are derived from a hash of the graph and the render options (see
// [Keyer]); nothing that depends on live interaction is ever cached.
//
// Three backends implement [Cache]:
//   - [FileCache] under the user's cache directory, for the CLI
//   - [RedisCache] for a shared cache behind `folio serve`
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
