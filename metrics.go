package addrsearch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement it to integrate with monitoring systems.
type MetricsCollector interface {
	// RecordFetch is called after each tier attempt of the fallback
	// chain. source is the tier label, err is nil on success.
	RecordFetch(source string, duration time.Duration, err error)

	// RecordBuild is called after each fetch+decode+build sequence.
	// degraded reports a previous-version fallback build.
	RecordBuild(version string, duration time.Duration, degraded bool, err error)

	// RecordQuery is called after each query. results is the number of
	// records returned; err is the underlying failure when the query
	// degraded to empty results.
	RecordQuery(duration time.Duration, results int, err error)

	// RecordCacheHit is called when a query is served from the warm
	// bundle cache without I/O.
	RecordCacheHit()

	// RecordCacheMiss is called when a query triggers a cold build.
	RecordCacheMiss()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFetch(string, time.Duration, error)       {}
func (NoopMetricsCollector) RecordBuild(string, time.Duration, bool, error) {}
func (NoopMetricsCollector) RecordQuery(time.Duration, int, error)          {}
func (NoopMetricsCollector) RecordCacheHit()                                {}
func (NoopMetricsCollector) RecordCacheMiss()                               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	FetchCount      atomic.Int64
	FetchErrors     atomic.Int64
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	DegradedBuilds  atomic.Int64
	BuildTotalNanos atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryTotalNanos atomic.Int64
	CacheHits       atomic.Int64
	CacheMisses     atomic.Int64
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(source string, duration time.Duration, err error) {
	b.FetchCount.Add(1)
	if err != nil {
		b.FetchErrors.Add(1)
	}
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(version string, duration time.Duration, degraded bool, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if degraded {
		b.DegradedBuilds.Add(1)
	}
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(duration time.Duration, results int, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordCacheHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheHit() {
	b.CacheHits.Add(1)
}

// RecordCacheMiss implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheMiss() {
	b.CacheMisses.Add(1)
}
