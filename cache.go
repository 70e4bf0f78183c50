package addrsearch

import (
	"context"
	"sync"
	"time"

	"github.com/citizenbob/land-estimator-sub001/bundle"
	"github.com/citizenbob/land-estimator-sub001/index"
	"github.com/citizenbob/land-estimator-sub001/loader"
	"github.com/citizenbob/land-estimator-sub001/manifest"
	"golang.org/x/sync/singleflight"
)

// cacheEntry is the unit owned by the bundle cache: one fully built,
// immutable snapshot version. Replaced wholesale, never mutated.
type cacheEntry struct {
	version   string
	index     *index.SearchIndex
	recordIDs []string
	records   *index.DisplayLookup
	builtAt   time.Time
	degraded  bool
}

// bundleCache owns the active cacheEntry and coordinates cold-start
// builds. N concurrent callers during a cold start trigger exactly one
// fetch+decode+build sequence and share its result.
type bundleCache struct {
	resolver manifest.Resolver
	chain    *loader.Chain
	decoder  *bundle.Decoder
	logger   *Logger
	metrics  MetricsCollector

	mu    sync.RWMutex
	entry *cacheEntry

	flight singleflight.Group
}

func newBundleCache(resolver manifest.Resolver, chain *loader.Chain, decoder *bundle.Decoder, logger *Logger, metrics MetricsCollector) *bundleCache {
	return &bundleCache{
		resolver: resolver,
		chain:    chain,
		decoder:  decoder,
		logger:   logger,
		metrics:  metrics,
	}
}

func (c *bundleCache) current() *cacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entry
}

func (c *bundleCache) store(e *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = e
}

func (c *bundleCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

// getIndex returns the active entry, building it if the cache is cold or
// the manifest names a newer version. Invalidation is lazy: it happens
// here at call time, never via background polling.
func (c *bundleCache) getIndex(ctx context.Context) (*cacheEntry, error) {
	m, err := c.resolver.Resolve(ctx)
	if err != nil {
		// A resolvable-manifest outage should not take down an already
		// warm index; only cold starts propagate it.
		if e := c.current(); e != nil {
			return e, nil
		}
		return nil, err
	}

	if e := c.current(); e != nil && e.version == m.Current.Version {
		c.metrics.RecordCacheHit()
		return e, nil
	}
	c.metrics.RecordCacheMiss()

	v, err, _ := c.flight.Do("bundle:"+m.Current.Version, func() (any, error) {
		if e := c.current(); e != nil && e.version == m.Current.Version {
			return e, nil
		}
		return c.buildWithFallback(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return v.(*cacheEntry), nil
}

// buildWithFallback builds the manifest's current version, falling back
// to the previous version on any failure. Decode failures on the current
// version take the same fallback path as fetch failures: remaining
// transport tiers are not retried for the same version.
func (c *bundleCache) buildWithFallback(ctx context.Context, m *manifest.Manifest) (*cacheEntry, error) {
	start := time.Now()
	entry, curErr := c.build(ctx, m.Current, false)
	if curErr == nil {
		c.store(entry)
		c.metrics.RecordBuild(entry.version, time.Since(start), false, nil)
		c.logger.LogBuild(entry.version, len(entry.recordIDs), time.Since(start), false, nil)
		return entry, nil
	}
	c.metrics.RecordBuild(m.Current.Version, time.Since(start), false, curErr)
	c.logger.LogBuild(m.Current.Version, 0, time.Since(start), false, curErr)

	if m.Previous == nil {
		return nil, &IndexUnavailableError{
			CurrentVersion: m.Current.Version,
			CurrentErr:     curErr,
		}
	}

	start = time.Now()
	entry, prevErr := c.build(ctx, *m.Previous, true)
	if prevErr != nil {
		c.metrics.RecordBuild(m.Previous.Version, time.Since(start), true, prevErr)
		c.logger.LogBuild(m.Previous.Version, 0, time.Since(start), true, prevErr)
		return nil, &IndexUnavailableError{
			CurrentVersion:  m.Current.Version,
			PreviousVersion: m.Previous.Version,
			CurrentErr:      curErr,
			PreviousErr:     prevErr,
		}
	}

	c.store(entry)
	c.metrics.RecordBuild(entry.version, time.Since(start), true, nil)
	c.logger.LogBuild(entry.version, len(entry.recordIDs), time.Since(start), true, nil)
	return entry, nil
}

// build runs the full cold path for one file set: fetch through the
// fallback chain, decode, build the search structures.
func (c *bundleCache) build(ctx context.Context, fs manifest.FileSet, degraded bool) (*cacheEntry, error) {
	loc := loader.Locator{
		URL:     fs.Files.AddressIndex,
		Logical: manifest.FileAddressIndex,
		Version: fs.Version,
	}

	raw, err := c.chain.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}

	b, err := c.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}

	if b.Version != "" && b.Version != fs.Version {
		c.logger.Warn("bundle version differs from manifest",
			"manifest_version", fs.Version,
			"bundle_version", b.Version,
		)
	}

	return &cacheEntry{
		version:   fs.Version,
		index:     index.Build(b.SearchStrings),
		recordIDs: b.RecordIDs,
		records:   index.NewDisplayLookup(b.RecordIDs, b.SearchStrings, b.Regions),
		builtAt:   time.Now(),
		degraded:  degraded,
	}, nil
}
