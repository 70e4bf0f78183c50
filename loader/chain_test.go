package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/citizenbob/land-estimator-sub001/blobstore"
	"github.com/citizenbob/land-estimator-sub001/cachestore"
	"github.com/stretchr/testify/require"
)

var testLoc = Locator{
	URL:     "https://cdn.example.com/cdn/address-index-v5.json.gz?dl=1",
	Logical: "address-index",
	Version: "v5",
}

// stubSource is a scripted tier for ordering tests.
type stubSource struct {
	name  string
	data  []byte
	err   error
	calls atomic.Int64
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context, Locator) ([]byte, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func TestChainFirstSuccessWins(t *testing.T) {
	primary := &stubSource{name: "cdn", data: []byte("primary")}
	secondary := &stubSource{name: "mirror", data: []byte("secondary")}

	c := NewChain([]Source{primary, secondary})
	data, err := c.Fetch(context.Background(), testLoc)
	require.NoError(t, err)
	require.Equal(t, []byte("primary"), data)
	require.EqualValues(t, 1, primary.calls.Load())
	require.EqualValues(t, 0, secondary.calls.Load())
}

func TestChainAdvancesInOrder(t *testing.T) {
	primary := &stubSource{name: "cdn", err: errors.New("status 500")}
	secondary := &stubSource{name: "mirror", err: ErrNotFound}
	cacheTier := &stubSource{name: "local-cache", data: []byte("cached")}

	c := NewChain([]Source{primary, secondary, cacheTier})
	data, err := c.Fetch(context.Background(), testLoc)
	require.NoError(t, err)
	require.Equal(t, []byte("cached"), data)
	require.EqualValues(t, 1, primary.calls.Load())
	require.EqualValues(t, 1, secondary.calls.Load())
	require.EqualValues(t, 1, cacheTier.calls.Load())
}

func TestChainExhausted(t *testing.T) {
	primary := &stubSource{name: "cdn", err: errors.New("status 500")}
	secondary := &stubSource{name: "mirror", err: ErrNotFound}

	c := NewChain([]Source{primary, secondary})
	_, err := c.Fetch(context.Background(), testLoc)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Len(t, exhausted.Attempts, 2)
	require.Equal(t, "cdn", exhausted.Attempts[0].Source)
	require.Equal(t, "mirror", exhausted.Attempts[1].Source)
	require.ErrorIs(t, exhausted.Attempts[1].Err, ErrNotFound)
	require.Contains(t, err.Error(), "address-index")
}

// blockingSource hangs until its tier context expires.
type blockingSource struct {
	name string
}

func (s *blockingSource) Name() string { return s.name }

func (s *blockingSource) Fetch(ctx context.Context, _ Locator) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestChainTierTimeoutAdvances(t *testing.T) {
	slow := &blockingSource{name: "cdn"}
	fast := &stubSource{name: "mirror", data: []byte("ok")}

	c := NewChain([]Source{slow, fast}, WithTierTimeout(50*time.Millisecond))

	start := time.Now()
	data, err := c.Fetch(context.Background(), testLoc)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Equal(t, []byte("ok"), data)
	require.EqualValues(t, 1, fast.calls.Load())
	require.Less(t, elapsed, 5*time.Second, "slow tier must be cut off, not waited out")
}

func TestChainTierTimeoutExhausted(t *testing.T) {
	slow := &blockingSource{name: "cdn"}

	c := NewChain([]Source{slow}, WithTierTimeout(50*time.Millisecond))
	_, err := c.Fetch(context.Background(), testLoc)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Len(t, exhausted.Attempts, 1)
	require.ErrorIs(t, exhausted.Attempts[0].Err, context.DeadlineExceeded)
}

func TestChainObserver(t *testing.T) {
	primary := &stubSource{name: "cdn", err: errors.New("boom")}
	secondary := &stubSource{name: "mirror", data: []byte("ok")}

	var observed []string
	c := NewChain([]Source{primary, secondary}, WithObserver(func(source string, _ time.Duration, err error) {
		if err != nil {
			observed = append(observed, source+":err")
		} else {
			observed = append(observed, source+":ok")
		}
	}))

	_, err := c.Fetch(context.Background(), testLoc)
	require.NoError(t, err)
	require.Equal(t, []string{"cdn:err", "mirror:ok"}, observed)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	t.Cleanup(srv.Close)

	s := NewHTTPSource(srv.Client())
	data, err := s.Fetch(context.Background(), Locator{URL: srv.URL + "/cdn/address-index-v5.json.gz"})
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
}

func TestHTTPSourceStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	s := NewHTTPSource(srv.Client())

	_, err := s.Fetch(context.Background(), Locator{URL: srv.URL + "/missing"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Fetch(context.Background(), Locator{URL: srv.URL + "/broken"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestObjectSource(t *testing.T) {
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "address-index-v5.json.gz", []byte("mirrored")))

	s := NewObjectSource("backup-cdn", store, nil)
	require.Equal(t, "backup-cdn", s.Name())

	data, err := s.Fetch(context.Background(), testLoc)
	require.NoError(t, err)
	require.Equal(t, []byte("mirrored"), data)

	_, err = s.Fetch(context.Background(), Locator{URL: "https://cdn.example.com/cdn/address-index-v9.json.gz"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCacheSourceAlternateSpellings(t *testing.T) {
	ctx := context.Background()
	provider := cachestore.NewMemoryProvider()
	handle, err := provider.Open(ctx, cachestore.DefaultNamespace)
	require.NoError(t, err)

	// Stored under the backup-CDN spelling, not the exact URL.
	require.NoError(t, handle.Put(ctx, "cdn/address-index-v5.json.gz", []byte("warm")))

	s := NewCacheSource(provider, "")
	data, err := s.Fetch(ctx, testLoc)
	require.NoError(t, err)
	require.Equal(t, []byte("warm"), data)
}

func TestCacheSourceMiss(t *testing.T) {
	s := NewCacheSource(cachestore.NewMemoryProvider(), "")
	_, err := s.Fetch(context.Background(), testLoc)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCacheScanSource(t *testing.T) {
	ctx := context.Background()
	provider := cachestore.NewMemoryProvider()

	// File lives in a legacy namespace, not the shared contract one.
	legacy, err := provider.Open(ctx, "land-estimator-bundles-v0")
	require.NoError(t, err)
	require.NoError(t, legacy.Put(ctx, testLoc.CacheKey(), []byte("legacy")))

	s := NewCacheScanSource(provider)
	data, err := s.Fetch(ctx, testLoc)
	require.NoError(t, err)
	require.Equal(t, []byte("legacy"), data)
}

func TestLocatorKeys(t *testing.T) {
	require.Equal(t, "https://cdn.example.com/cdn/address-index-v5.json.gz", testLoc.CacheKey())
	require.Equal(t, "address-index-v5.json.gz", testLoc.Filename())
	require.Equal(t, []string{
		"https://cdn.example.com/cdn/address-index-v5.json.gz",
		"https://cdn.example.com/cdn/address-index-v5.json.gz?dl=1",
		"cdn/address-index-v5.json.gz",
		"address-index-v5.json.gz",
	}, testLoc.AlternateKeys())
}
