// Package manifest resolves the version manifest naming the current and
// previous dataset snapshots and the remote locations of their files.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Logical file names within a versioned file set. Published objects are
// named "<logical>-<version>.json.gz" with the logical name hyphenated.
const (
	FileAddressIndex   = "address-index"
	FileParcelMetadata = "parcel-metadata"
	FileParcelGeometry = "parcel-geometry"
)

// ErrUnavailable is returned when the remote descriptor cannot be
// fetched or fails schema validation.
var ErrUnavailable = errors.New("manifest unavailable")

// Files holds the remote URL of each logical file in a snapshot.
type Files struct {
	AddressIndex   string `json:"address_index"`
	ParcelMetadata string `json:"parcel_metadata"`
	ParcelGeometry string `json:"parcel_geometry"`
}

// URL returns the URL for a logical file name, or "" if unknown.
func (f Files) URL(logical string) string {
	switch logical {
	case FileAddressIndex:
		return f.AddressIndex
	case FileParcelMetadata:
		return f.ParcelMetadata
	case FileParcelGeometry:
		return f.ParcelGeometry
	default:
		return ""
	}
}

// FileSet names one immutable snapshot version and its files.
// Once published a version is never mutated, only superseded.
type FileSet struct {
	Version string `json:"version"`
	Files   Files  `json:"files"`
}

// Manifest is the remote version descriptor. Immutable once fetched;
// resolvers re-fetch after a TTL or on explicit invalidation.
type Manifest struct {
	GeneratedAt       string   `json:"generated_at"`
	Current           FileSet  `json:"current"`
	Previous          *FileSet `json:"previous,omitempty"`
	AvailableVersions []string `json:"available_versions,omitempty"`
}

// Validate checks the fields every consumer depends on.
func (m *Manifest) Validate() error {
	if m.Current.Version == "" {
		return fmt.Errorf("%w: missing current.version", ErrUnavailable)
	}
	if m.Current.Files.AddressIndex == "" {
		return fmt.Errorf("%w: missing current.files.address_index", ErrUnavailable)
	}
	if m.Previous != nil && m.Previous.Version == "" {
		return fmt.Errorf("%w: previous present without version", ErrUnavailable)
	}
	return nil
}

// Resolver produces the active manifest.
type Resolver interface {
	// Resolve returns the active manifest, from cache while fresh.
	Resolve(ctx context.Context) (*Manifest, error)

	// Invalidate discards any cached manifest so the next Resolve
	// re-fetches.
	Invalidate()
}

// DefaultTTL is how long a fetched manifest stays fresh.
const DefaultTTL = 5 * time.Minute
