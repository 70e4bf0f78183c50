package addrsearch

import (
	"errors"

	"github.com/citizenbob/land-estimator-sub001/bundle"
	"github.com/citizenbob/land-estimator-sub001/cachestore"
	"github.com/citizenbob/land-estimator-sub001/loader"
	"github.com/citizenbob/land-estimator-sub001/manifest"
	"golang.org/x/sync/singleflight"
)

// Engine is the versioned search-index distribution and query engine.
// One Engine owns one active snapshot; construct independent instances
// for independent datasets (or tests).
type Engine struct {
	logger        *Logger
	metrics       MetricsCollector
	resolver      manifest.Resolver
	chain         *loader.Chain
	cache         *bundleCache
	cacheProvider cachestore.Provider
	results       *resultCache
	queryFlight   singleflight.Group
	minQueryLen   int
}

// New creates an Engine over the given manifest resolver and ordered
// fallback sources. Sources are attempted strictly in the order given.
func New(resolver manifest.Resolver, sources []loader.Source, opts ...Option) (*Engine, error) {
	if resolver == nil {
		return nil, errors.New("addrsearch: nil manifest resolver")
	}
	if len(sources) == 0 {
		return nil, errors.New("addrsearch: no fallback sources")
	}

	o := options{
		logger:         NewLogger(nil),
		metrics:        NoopMetricsCollector{},
		tierTimeout:    loader.DefaultTierTimeout,
		minQueryLen:    DefaultMinQueryLength,
		resultCacheCap: DefaultResultCacheCapacity,
	}
	for _, opt := range opts {
		opt(&o)
	}

	chain := loader.NewChain(sources,
		loader.WithTierTimeout(o.tierTimeout),
		loader.WithLogger(o.logger.Logger),
		loader.WithObserver(o.metrics.RecordFetch),
	)

	e := &Engine{
		logger:        o.logger,
		metrics:       o.metrics,
		resolver:      resolver,
		chain:         chain,
		cacheProvider: o.cacheProvider,
		results:       newResultCache(o.resultCacheCap),
		minQueryLen:   o.minQueryLen,
	}
	e.cache = newBundleCache(resolver, chain, bundle.NewDecoder(o.codec), o.logger, o.metrics)
	return e, nil
}

// ResetForTests clears the bundle cache, the result cache, and the
// cached manifest, returning the engine to a cold state. Tests use this
// instead of process restarts; in-flight operations are left to settle.
func (e *Engine) ResetForTests() {
	e.cache.reset()
	e.results.reset()
	e.resolver.Invalidate()
}
