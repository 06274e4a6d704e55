package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or already expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is a namespaced key-value store with per-key TTLs.
//
// Two shapes of value exist under one keyspace: single records (Put/Get) and
// capped append-only lists (PushCapped/ReadList). All state is session-scoped
// and ephemeral; the store reclaims expired keys on a coarse schedule, so
// callers that care about exact liveness must also compare their own
// timestamps on read.
type Store interface {
	// Put writes value under key, replacing any prior value and resetting
	// the TTL. TTLs round up to whole seconds.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the current value for key, or ErrNotFound if the key is
	// absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// PushCapped appends item to the list under key, drops the oldest
	// entry if the list would exceed cap, and resets the TTL. The
	// append+trim is atomic per key.
	PushCapped(ctx context.Context, key string, item []byte, cap int, ttl time.Duration) error

	// ReadList returns the list under key in insertion order. A missing or
	// expired key yields an empty slice, never an error.
	ReadList(ctx context.Context, key string) ([][]byte, error)
}
