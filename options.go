package addrsearch

import (
	"time"

	"github.com/citizenbob/land-estimator-sub001/cachestore"
	"github.com/citizenbob/land-estimator-sub001/codec"
)

type options struct {
	logger         *Logger
	metrics        MetricsCollector
	codec          codec.Codec
	cacheProvider  cachestore.Provider
	tierTimeout    time.Duration
	minQueryLen    int
	resultCacheCap int
}

// DefaultMinQueryLength is the minimum normalized query length before
// the index is touched. Boundary layers facing raw user input typically
// enforce a slightly higher threshold on top.
const DefaultMinQueryLength = 2

// DefaultResultCacheCapacity bounds the per-version query result cache.
const DefaultResultCacheCapacity = 256

// Option configures engine construction.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, the default stderr text
// logger is kept.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithCodec configures the codec used to decode bundles.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCacheProvider installs the host runtime's local cache store. It is
// consumed by Prefetch when warming the shared namespace; the cache
// tiers of the fallback chain are configured separately as sources.
func WithCacheProvider(p cachestore.Provider) Option {
	return func(o *options) {
		o.cacheProvider = p
	}
}

// WithTierTimeout bounds each fallback tier's network attempt.
func WithTierTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tierTimeout = d
		}
	}
}

// WithMinQueryLength overrides the short-query short-circuit threshold.
func WithMinQueryLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minQueryLen = n
		}
	}
}

// WithResultCacheCapacity overrides the per-version result cache size.
// Zero disables result caching.
func WithResultCacheCapacity(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.resultCacheCap = n
		}
	}
}
