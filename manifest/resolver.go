package manifest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/citizenbob/land-estimator-sub001/codec"
	"golang.org/x/time/rate"
)

// HTTPResolver fetches the manifest from a remote endpoint and caches it
// for a TTL. The endpoint sets no-cache headers; freshness is enforced
// client-side, not via HTTP caching.
//
// Re-fetches are additionally rate limited so a hot query path cannot
// hammer a down manifest endpoint: while the limiter denies, a stale
// cached manifest is served if one exists.
type HTTPResolver struct {
	url     string
	client  *http.Client
	codec   codec.Codec
	ttl     time.Duration
	limiter *rate.Limiter
	now     func() time.Time

	mu       sync.Mutex
	cached   *Manifest
	cachedAt time.Time
}

// ResolverOption configures an HTTPResolver.
type ResolverOption func(*HTTPResolver)

// WithHTTPClient overrides the HTTP client used for manifest fetches.
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *HTTPResolver) {
		if client != nil {
			r.client = client
		}
	}
}

// WithTTL overrides the manifest freshness window.
func WithTTL(ttl time.Duration) ResolverOption {
	return func(r *HTTPResolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithCodec overrides the codec used to decode the manifest body.
func WithCodec(c codec.Codec) ResolverOption {
	return func(r *HTTPResolver) {
		if c != nil {
			r.codec = c
		}
	}
}

// WithRefetchLimit overrides the rate limiter applied to remote fetches.
func WithRefetchLimit(l *rate.Limiter) ResolverOption {
	return func(r *HTTPResolver) {
		if l != nil {
			r.limiter = l
		}
	}
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *HTTPResolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewHTTPResolver creates a resolver for the given manifest URL.
func NewHTTPResolver(url string, opts ...ResolverOption) *HTTPResolver {
	r := &HTTPResolver{
		url:     url,
		client:  http.DefaultClient,
		codec:   codec.Default,
		ttl:     DefaultTTL,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the cached manifest while fresh, otherwise re-fetches.
func (r *HTTPResolver) Resolve(ctx context.Context) (*Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.cached != nil && now.Sub(r.cachedAt) < r.ttl {
		return r.cached, nil
	}

	if !r.limiter.Allow() {
		if r.cached != nil {
			// Stale but present beats hammering a struggling endpoint.
			return r.cached, nil
		}
		return nil, fmt.Errorf("%w: refetch rate limited", ErrUnavailable)
	}

	m, err := r.fetch(ctx)
	if err != nil {
		if r.cached != nil {
			return r.cached, nil
		}
		return nil, err
	}

	r.cached = m
	r.cachedAt = now
	return m, nil
}

// Invalidate discards the cached manifest.
func (r *HTTPResolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = nil
	r.cachedAt = time.Time{}
}

func (r *HTTPResolver) fetch(ctx context.Context) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnavailable, r.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var m Manifest
	if err := r.codec.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// StaticResolver serves a fixed manifest, bypassing the network.
// This is the local/development configuration switch, not a fallback.
type StaticResolver struct {
	manifest *Manifest
}

// NewStaticResolver creates a resolver that always returns m.
func NewStaticResolver(m *Manifest) (*StaticResolver, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil static manifest", ErrUnavailable)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &StaticResolver{manifest: m}, nil
}

// Resolve returns the static manifest.
func (r *StaticResolver) Resolve(context.Context) (*Manifest, error) {
	return r.manifest, nil
}

// Invalidate is a no-op for static manifests.
func (r *StaticResolver) Invalidate() {}
