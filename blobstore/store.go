package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when an object does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for accessing immutable snapshot objects.
type Store interface {
	// Get returns the complete contents of the named object.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put writes an object atomically. Published snapshots are never
	// mutated, only superseded, so Put is only exercised by mirror
	// population tooling and tests.
	Put(ctx context.Context, name string, data []byte) error

	// List returns all object names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
