package addrsearch

import (
	"fmt"

	"github.com/citizenbob/land-estimator-sub001/bundle"
	"github.com/citizenbob/land-estimator-sub001/loader"
	"github.com/citizenbob/land-estimator-sub001/manifest"
)

// Sentinels re-exported from the layers that raise them, so callers can
// match the whole taxonomy with errors.Is against this package alone.
var (
	// ErrManifestUnavailable: the remote descriptor could not be
	// fetched or failed schema validation.
	ErrManifestUnavailable = manifest.ErrUnavailable

	// ErrCorruptBundle: decompression or parsing of a fetched file failed.
	ErrCorruptBundle = bundle.ErrCorrupt

	// ErrSchemaMismatch: a parsed bundle is missing required fields.
	ErrSchemaMismatch = bundle.ErrSchemaMismatch
)

// AllSourcesExhaustedError is returned when every tier of the fallback
// chain failed for one file. It carries the ordered per-source failures.
type AllSourcesExhaustedError = loader.ExhaustedError

// IndexUnavailableError is terminal: the current version failed to build
// and either no previous version existed or it failed too.
type IndexUnavailableError struct {
	CurrentVersion  string
	PreviousVersion string
	CurrentErr      error
	PreviousErr     error
}

func (e *IndexUnavailableError) Error() string {
	if e.PreviousVersion == "" {
		return fmt.Sprintf("index unavailable: version %s failed (%v), no previous version",
			e.CurrentVersion, e.CurrentErr)
	}
	return fmt.Sprintf("index unavailable: version %s failed (%v), previous %s failed (%v)",
		e.CurrentVersion, e.CurrentErr, e.PreviousVersion, e.PreviousErr)
}

// Unwrap exposes both failure chains to errors.Is/As.
func (e *IndexUnavailableError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.CurrentErr != nil {
		errs = append(errs, e.CurrentErr)
	}
	if e.PreviousErr != nil {
		errs = append(errs, e.PreviousErr)
	}
	return errs
}
