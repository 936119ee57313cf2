package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("storage: store is closed")

// Store is the durable key-value persistence adapter. Keys are fixed
// document names and values are complete JSON documents.
//
// Each call touches exactly one key; there are no multi-key transactions.
type Store interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the underlying resources.
	Close() error
}
