// Package storage persists the best genome between runs behind a small
// key-value interface with memory, file, and SQLite backends.
package storage

import (
	"context"
	"errors"
)

// ErrNotInitialized is returned by backends used before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// KV is a byte-oriented key-value store.
type KV interface {
	Init(ctx context.Context) error
	Put(ctx context.Context, key string, payload []byte) error
	// Get reports ok=false with a nil error when the key is absent.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Delete(ctx context.Context, key string) error
	Close() error
}
