// Package cachestore defines the local cache-store contract provided by
// the host runtime (a service-worker CacheStorage in browsers, or any
// URL-keyed byte cache on servers).
//
// This subsystem only consumes the contract: an external pre-warm
// coordinator is expected to Put the same versioned snapshot URLs this
// subsystem later Matches, using the shared DefaultNamespace string both
// sides agree on. MemoryProvider is the reference implementation used by
// tests and embedded runtimes.
package cachestore

import (
	"context"
	"errors"
)

// DefaultNamespace is the cache namespace contract shared with the
// pre-warm coordinator. Both sides must use the same string or the
// cache tiers of the fallback chain never hit.
const DefaultNamespace = "land-estimator-bundles-v1"

// ErrMiss is returned by Match when the URL has no cached entry.
var ErrMiss = errors.New("cachestore: miss")

// Provider opens URL-keyed cache namespaces.
type Provider interface {
	// Open returns a handle on the named cache namespace, creating it
	// if the host runtime supports creation.
	Open(ctx context.Context, namespace string) (Handle, error)

	// Namespaces lists all cache namespaces currently present.
	Namespaces(ctx context.Context) ([]string, error)
}

// Handle is a URL-keyed byte cache namespace.
type Handle interface {
	// Match returns the cached bytes for the exact URL, or ErrMiss.
	Match(ctx context.Context, url string) ([]byte, error)

	// Put stores bytes under the URL, replacing any existing entry.
	Put(ctx context.Context, url string, data []byte) error

	// Keys lists every cached URL in the namespace, sorted. Cleanup
	// tooling uses it to evict entries for retired snapshot versions.
	Keys(ctx context.Context) ([]string, error)
}
