package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const manifestBody = `{
	"generated_at": "2025-11-02T10:00:00Z",
	"current": {
		"version": "v1.2.0",
		"files": {
			"address_index": "https://cdn.example.com/cdn/address-index-v1.2.0.json.gz",
			"parcel_metadata": "https://cdn.example.com/cdn/parcel-metadata-v1.2.0.json.gz",
			"parcel_geometry": "https://cdn.example.com/cdn/parcel-geometry-v1.2.0.json.gz"
		}
	},
	"previous": {
		"version": "v1.1.0",
		"files": {
			"address_index": "https://cdn.example.com/cdn/address-index-v1.1.0.json.gz"
		}
	},
	"available_versions": ["v1.2.0", "v1.1.0"]
}`

func newManifestServer(t *testing.T, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestHTTPResolverResolve(t *testing.T) {
	srv, hits := newManifestServer(t, manifestBody)
	r := NewHTTPResolver(srv.URL)

	m, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v1.2.0", m.Current.Version)
	require.NotNil(t, m.Previous)
	require.Equal(t, "v1.1.0", m.Previous.Version)
	require.Equal(t, []string{"v1.2.0", "v1.1.0"}, m.AvailableVersions)
	require.EqualValues(t, 1, hits.Load())
}

func TestHTTPResolverCachesWithinTTL(t *testing.T) {
	srv, hits := newManifestServer(t, manifestBody)
	r := NewHTTPResolver(srv.URL, WithTTL(time.Hour))

	ctx := context.Background()
	first, err := r.Resolve(ctx)
	require.NoError(t, err)
	second, err := r.Resolve(ctx)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.EqualValues(t, 1, hits.Load())
}

func TestHTTPResolverRefetchesAfterTTL(t *testing.T) {
	srv, hits := newManifestServer(t, manifestBody)

	now := time.Now()
	r := NewHTTPResolver(srv.URL,
		WithTTL(time.Minute),
		WithClock(func() time.Time { return now }),
		WithRefetchLimit(rate.NewLimiter(rate.Inf, 1)),
	)

	ctx := context.Background()
	_, err := r.Resolve(ctx)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = r.Resolve(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, hits.Load())
}

func TestHTTPResolverInvalidate(t *testing.T) {
	srv, hits := newManifestServer(t, manifestBody)
	r := NewHTTPResolver(srv.URL,
		WithTTL(time.Hour),
		WithRefetchLimit(rate.NewLimiter(rate.Inf, 1)),
	)

	ctx := context.Background()
	_, err := r.Resolve(ctx)
	require.NoError(t, err)

	r.Invalidate()
	_, err = r.Resolve(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, hits.Load())
}

func TestHTTPResolverUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	r := NewHTTPResolver(srv.URL)
	_, err := r.Resolve(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPResolverSchemaValidation(t *testing.T) {
	srv, _ := newManifestServer(t, `{"generated_at": "2025-11-02", "current": {"files": {}}}`)

	r := NewHTTPResolver(srv.URL)
	_, err := r.Resolve(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPResolverServesStaleOnFailure(t *testing.T) {
	var fail atomic.Bool
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(manifestBody))
	}))
	t.Cleanup(srv.Close)

	now := time.Now()
	r := NewHTTPResolver(srv.URL,
		WithTTL(time.Minute),
		WithClock(func() time.Time { return now }),
		WithRefetchLimit(rate.NewLimiter(rate.Inf, 1)),
	)

	ctx := context.Background()
	first, err := r.Resolve(ctx)
	require.NoError(t, err)

	fail.Store(true)
	now = now.Add(2 * time.Minute)

	stale, err := r.Resolve(ctx)
	require.NoError(t, err)
	require.Same(t, first, stale)
}

func TestStaticResolver(t *testing.T) {
	m := &Manifest{
		Current: FileSet{
			Version: "dev",
			Files:   Files{AddressIndex: "file:///fixtures/address-index.json.gz"},
		},
	}
	r, err := NewStaticResolver(m)
	require.NoError(t, err)

	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Same(t, m, got)

	r.Invalidate()
	got, err = r.Resolve(context.Background())
	require.NoError(t, err)
	require.Same(t, m, got)
}

func TestStaticResolverValidates(t *testing.T) {
	_, err := NewStaticResolver(&Manifest{})
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = NewStaticResolver(nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFilesURL(t *testing.T) {
	f := Files{
		AddressIndex:   "a",
		ParcelMetadata: "b",
		ParcelGeometry: "c",
	}
	require.Equal(t, "a", f.URL(FileAddressIndex))
	require.Equal(t, "b", f.URL(FileParcelMetadata))
	require.Equal(t, "c", f.URL(FileParcelGeometry))
	require.Equal(t, "", f.URL("bogus"))
}
