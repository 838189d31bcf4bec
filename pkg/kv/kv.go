// Package kv provides the key-value table abstraction backing metadata
// records. This allows swapping backends (Valkey/Redis, in-memory)
// without changing the recorder implementation.
package kv

import (
	"context"
	"time"
)

// Store defines a minimal key-value interface for record storage.
// Keys are strings, values are byte slices. All writes support TTL and
// have last-write-wins semantics on duplicate keys.
type Store interface {
	// Set stores a value with the given key and TTL.
	// If TTL is 0, the key does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key. Returns ErrNotFound if key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key. Returns nil if key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the connection to the store.
	Close() error
}
