// Package loader retrieves versioned snapshot files through an ordered
// chain of transport strategies.
//
// Each tier implements Source; the Chain walks them strictly in order,
// recording every failure and returning the first success. Misses and
// errors both advance the chain. No tier is retried within a single
// Fetch call; retries happen only via a fresh top-level call.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrNotFound signals a miss at a single tier (cache miss, absent
// object). It advances the chain exactly like a transport error.
var ErrNotFound = errors.New("loader: not found")

// Locator identifies one logical versioned file.
type Locator struct {
	// URL is the primary CDN location.
	URL string

	// Logical is the logical file name, e.g. "address-index".
	Logical string

	// Version is the snapshot version the file belongs to.
	Version string
}

// CacheKey returns the canonical URL under which cache tiers store the
// file: the primary URL stripped of any query string.
func (l Locator) CacheKey() string {
	if i := strings.IndexByte(l.URL, '?'); i >= 0 {
		return l.URL[:i]
	}
	return l.URL
}

// Filename returns the published object filename,
// "<logical>-<version>.json.gz", derived from the URL path.
func (l Locator) Filename() string {
	if u, err := url.Parse(l.URL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(l.URL)
}

// AlternateKeys returns the known alternate URL spellings for the same
// logical resource, in lookup order. Backends name the same file
// slightly differently (query strings, cdn/ folders, bare filenames);
// cache tiers try each spelling to tolerate those differences.
func (l Locator) AlternateKeys() []string {
	keys := []string{l.CacheKey()}
	if l.URL != l.CacheKey() {
		keys = append(keys, l.URL)
	}
	name := l.Filename()
	if name != "" && name != "." {
		keys = append(keys, "cdn/"+name, name)
	}
	return keys
}

// Source is one transport strategy in the fallback chain.
type Source interface {
	// Name labels the source in logs and aggregated errors.
	Name() string

	// Fetch returns the complete file contents, or ErrNotFound on a
	// miss, or any other error on transport failure.
	Fetch(ctx context.Context, loc Locator) ([]byte, error)
}

// SourceError records one tier's failure for diagnostics.
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e SourceError) Unwrap() error { return e.Err }

// ExhaustedError is returned when every tier failed. Attempts holds the
// per-tier failures in the order they were made.
type ExhaustedError struct {
	Locator  Locator
	Attempts []SourceError
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return fmt.Sprintf("all sources exhausted for %s %s: [%s]",
		e.Locator.Logical, e.Locator.Version, strings.Join(parts, "; "))
}
