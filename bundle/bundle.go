// Package bundle decodes the compressed, versioned snapshot payloads
// published by the offline ingest pipeline.
package bundle

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt is returned when decompression or parsing fails.
	ErrCorrupt = errors.New("corrupt bundle")

	// ErrSchemaMismatch is returned when a parsed bundle is missing
	// required fields or violates the record-count invariant.
	ErrSchemaMismatch = errors.New("bundle schema mismatch")
)

// IndexBundle is the decoded address-index payload.
//
// Invariant: len(RecordIDs) == len(SearchStrings) == RecordCount, and
// RecordIDs are unique. Regions is optional; when present it is parallel
// to RecordIDs.
type IndexBundle struct {
	RecordIDs     []string `json:"record_ids"`
	SearchStrings []string `json:"search_strings"`
	Regions       []string `json:"regions,omitempty"`
	RecordCount   int      `json:"record_count"`
	Version       string   `json:"version"`
	BuiltAt       string   `json:"built_at,omitempty"`
}

// Validate enforces the bundle invariants.
func (b *IndexBundle) Validate() error {
	if b.RecordIDs == nil {
		return fmt.Errorf("%w: missing record_ids", ErrSchemaMismatch)
	}
	if b.SearchStrings == nil {
		return fmt.Errorf("%w: missing search_strings", ErrSchemaMismatch)
	}
	if b.Version == "" {
		return fmt.Errorf("%w: missing version", ErrSchemaMismatch)
	}
	if len(b.RecordIDs) != len(b.SearchStrings) {
		return fmt.Errorf("%w: %d record_ids vs %d search_strings",
			ErrSchemaMismatch, len(b.RecordIDs), len(b.SearchStrings))
	}
	if len(b.RecordIDs) != b.RecordCount {
		return fmt.Errorf("%w: record_count %d does not match %d records",
			ErrSchemaMismatch, b.RecordCount, len(b.RecordIDs))
	}
	if b.Regions != nil && len(b.Regions) != b.RecordCount {
		return fmt.Errorf("%w: %d regions for %d records",
			ErrSchemaMismatch, len(b.Regions), b.RecordCount)
	}

	seen := make(map[string]struct{}, len(b.RecordIDs))
	for _, id := range b.RecordIDs {
		if id == "" {
			return fmt.Errorf("%w: empty record id", ErrSchemaMismatch)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate record id %q", ErrSchemaMismatch, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
