// Package chaindb selects and bootstraps the embedded key-value store that
// backs the in-process node's chain state.
package chaindb

import (
	"context"
)

// Store is one open key-value engine instance. Exactly one Store may be
// open against a given data directory at a time; the embedded node owns it
// for its whole lifetime and closes it on teardown.
type Store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Has(key []byte) (bool, error)
	Delete(key []byte) error

	// Close flushes and releases the engine. Destroy removes all on-disk
	// state; the store must be closed first.
	Close() error
	Destroy() error

	Health(ctx context.Context) (int, string, error)
}
