// Package kvstore provides the small set-if-absent key-value contract used for
// deduplication markers, feature flags and dialog sessions.
package kvstore

import (
	"context"
	"time"
)

// Store is a Redis-compatible key-value store. A zero ttl means the key never expires.
//
// SetNX must be a single atomic operation at the store level: two concurrent
// callers racing on the same key never both observe true.
type Store interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
