package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/citizenbob/land-estimator-sub001/blobstore"
)

// KeyFunc maps a primary locator to the equivalent object key on a
// secondary backend. This is the naming convention bridging the primary
// CDN path layout and the mirror's bucket layout.
type KeyFunc func(loc Locator) string

// DefaultKeyFunc reproduces the ingest pipeline's mirror layout: the
// bare published filename, e.g. "address-index-v1.2.0.json.gz". Stores
// prepend their own root prefix (typically "cdn/").
func DefaultKeyFunc(loc Locator) string {
	return loc.Filename()
}

// ObjectSource fetches from a secondary object-storage mirror
// (blobstore/s3, blobstore/minio, or an in-memory store in tests).
type ObjectSource struct {
	name  string
	store blobstore.Store
	key   KeyFunc
}

// NewObjectSource creates the secondary mirror tier. If key is nil,
// DefaultKeyFunc is used.
func NewObjectSource(name string, store blobstore.Store, key KeyFunc) *ObjectSource {
	if name == "" {
		name = "mirror"
	}
	if key == nil {
		key = DefaultKeyFunc
	}
	return &ObjectSource{name: name, store: store, key: key}
}

// Name implements Source.
func (s *ObjectSource) Name() string { return s.name }

// Fetch implements Source.
func (s *ObjectSource) Fetch(ctx context.Context, loc Locator) ([]byte, error) {
	key := s.key(loc)
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, err
	}
	return data, nil
}
