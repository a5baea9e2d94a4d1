package domain

import (
	"context"
	"time"
)

// CounterStore is the persistent counter collaborator. Keys are opaque
// strings; the day boundary is baked into the key so rollover needs no
// store-side logic.
type CounterStore interface {
	// Get returns the current count. Absent keys read as zero.
	Get(ctx context.Context, key string) (int64, error)
	// Increment atomically adds one, creating the key at 1, and re-asserts
	// the expiry so abandoned counters self-clean.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
