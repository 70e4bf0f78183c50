package addrsearch

import (
	"context"

	"github.com/citizenbob/land-estimator-sub001/cachestore"
	"github.com/citizenbob/land-estimator-sub001/loader"
	"github.com/citizenbob/land-estimator-sub001/manifest"
	"golang.org/x/sync/errgroup"
)

// Prefetch resolves the manifest and warms every file of the current
// version through the fallback chain concurrently, storing the bytes in
// the shared cache namespace when a cache provider is configured. It is
// the server-side counterpart of the external pre-warm coordinator: the
// cache tiers of later fetches hit what Prefetch stored.
//
// Prefetch does not build the search index; the first Query still pays
// the decode+build cost, but not the network cost.
func (e *Engine) Prefetch(ctx context.Context) error {
	m, err := e.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	var handle cachestore.Handle
	if e.cacheProvider != nil {
		handle, err = e.cacheProvider.Open(ctx, cachestore.DefaultNamespace)
		if err != nil {
			return err
		}
	}

	logicals := []string{
		manifest.FileAddressIndex,
		manifest.FileParcelMetadata,
		manifest.FileParcelGeometry,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(logicals))

	for _, logical := range logicals {
		url := m.Current.Files.URL(logical)
		if url == "" {
			continue
		}
		loc := loader.Locator{URL: url, Logical: logical, Version: m.Current.Version}

		g.Go(func() error {
			data, err := e.chain.Fetch(gctx, loc)
			if err != nil {
				return err
			}
			if handle != nil {
				return handle.Put(gctx, loc.CacheKey(), data)
			}
			return nil
		})
	}

	return g.Wait()
}
