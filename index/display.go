package index

import "strings"

// DisplayRecord is the human-readable form of one indexed record.
type DisplayRecord struct {
	DisplayName string
	Region      string
	Normalized  string
}

// DisplayLookup resolves record ids to display records without touching
// the raw bundle again. Immutable after construction.
type DisplayLookup struct {
	records map[string]DisplayRecord
}

// NewDisplayLookup derives display records from the bundle's parallel
// slices. Search strings carry the record id as their trailing token by
// build-pipeline convention; the trailing token is stripped from the
// display name when (and only when) it equals the record id. regions may
// be nil.
func NewDisplayLookup(ids, searchStrings, regions []string) *DisplayLookup {
	records := make(map[string]DisplayRecord, len(ids))
	for i, id := range ids {
		display := searchStrings[i]
		if cut := strings.TrimSuffix(display, " "+id); cut != display {
			display = cut
		}
		display = strings.TrimSpace(display)

		rec := DisplayRecord{
			DisplayName: display,
			Normalized:  Normalize(display),
		}
		if regions != nil {
			rec.Region = regions[i]
		}
		records[id] = rec
	}
	return &DisplayLookup{records: records}
}

// Get returns the display record for id.
func (l *DisplayLookup) Get(id string) (DisplayRecord, bool) {
	rec, ok := l.records[id]
	return rec, ok
}

// Len returns the number of records.
func (l *DisplayLookup) Len() int { return len(l.records) }
