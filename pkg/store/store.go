// Package store provides the namespaced key/value storage used for telemetry
// records and exporter configuration. Two backends are available: Redis for a
// shared deployment and a local JSON file when no Redis server is reachable.
package store

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	// ErrNotFound is returned when a key doesn't exist.
	ErrNotFound = errors.New("key not found")
	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("store is closed")
)

// Entry is a single stored key/value pair. Values are serialized JSON records.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store abstracts the key/value backend.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the entry for a key.
	// Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set writes a value under a key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all keys starting with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
