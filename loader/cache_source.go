package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/citizenbob/land-estimator-sub001/cachestore"
)

// CacheSource looks up the locally pre-warmed cache namespace managed by
// the external cache coordinator. It tries the exact URL first, then the
// known alternate spellings of the same logical resource.
type CacheSource struct {
	provider  cachestore.Provider
	namespace string
}

// NewCacheSource creates the local-cache tier over the shared namespace.
// If namespace is empty, cachestore.DefaultNamespace is used.
func NewCacheSource(provider cachestore.Provider, namespace string) *CacheSource {
	if namespace == "" {
		namespace = cachestore.DefaultNamespace
	}
	return &CacheSource{provider: provider, namespace: namespace}
}

// Name implements Source.
func (s *CacheSource) Name() string { return "local-cache" }

// Fetch implements Source.
func (s *CacheSource) Fetch(ctx context.Context, loc Locator) ([]byte, error) {
	handle, err := s.provider.Open(ctx, s.namespace)
	if err != nil {
		return nil, err
	}
	return matchAny(ctx, handle, loc)
}

// CacheScanSource is the last-resort tier: it iterates every cache
// namespace present in the host runtime, not just the shared one, to
// recover files cached under older namespace contracts.
type CacheScanSource struct {
	provider cachestore.Provider
}

// NewCacheScanSource creates the all-namespaces scan tier.
func NewCacheScanSource(provider cachestore.Provider) *CacheScanSource {
	return &CacheScanSource{provider: provider}
}

// Name implements Source.
func (s *CacheScanSource) Name() string { return "cache-scan" }

// Fetch implements Source.
func (s *CacheScanSource) Fetch(ctx context.Context, loc Locator) ([]byte, error) {
	namespaces, err := s.provider.Namespaces(ctx)
	if err != nil {
		return nil, err
	}

	for _, ns := range namespaces {
		handle, err := s.provider.Open(ctx, ns)
		if err != nil {
			continue
		}
		if data, err := matchAny(ctx, handle, loc); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %d namespaces", ErrNotFound, loc.CacheKey(), len(namespaces))
}

func matchAny(ctx context.Context, handle cachestore.Handle, loc Locator) ([]byte, error) {
	for _, key := range loc.AlternateKeys() {
		data, err := handle.Match(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, cachestore.ErrMiss) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, loc.CacheKey())
}
