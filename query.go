package addrsearch

import (
	"context"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/citizenbob/land-estimator-sub001/index"
)

// UnknownAddress is the display sentinel for a record id with no display
// entry. A hole in the display data degrades one row, not the call.
const UnknownAddress = "Unknown Address"

// DefaultQueryLimit is used when Query is called with limit <= 0.
const DefaultQueryLimit = 10

// Result is one typeahead suggestion.
type Result struct {
	ID             string
	DisplayName    string
	Region         string
	NormalizedText string
}

// Query normalizes text, searches the cached index, and maps matches to
// display records, truncated to limit.
//
// Query never fails: any error along the manifest, fetch, decode, or
// build path is logged and degrades to an empty result set. Queries
// under the minimum normalized length return empty without touching the
// index or the network. Concurrent calls with the same normalized text
// and limit share a single underlying lookup.
func (e *Engine) Query(ctx context.Context, text string, limit int) []Result {
	start := time.Now()

	normalized := index.Normalize(text)
	if utf8.RuneCountInString(normalized) < e.minQueryLen {
		return []Result{}
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	key := "query:" + normalized + ":" + strconv.Itoa(limit)
	v, err, _ := e.queryFlight.Do(key, func() (any, error) {
		return e.runQuery(ctx, normalized, limit)
	})

	duration := time.Since(start)
	if err != nil {
		e.logger.LogQuery(normalized, 0, duration, err)
		e.metrics.RecordQuery(duration, 0, err)
		return []Result{}
	}

	results := v.([]Result)
	e.logger.LogQuery(normalized, len(results), duration, nil)
	e.metrics.RecordQuery(duration, len(results), nil)

	// Each caller gets its own slice; the cached copy and the slice
	// shared between deduplicated waiters stay canonical.
	out := make([]Result, len(results))
	copy(out, results)
	return out
}

func (e *Engine) runQuery(ctx context.Context, normalized string, limit int) ([]Result, error) {
	entry, err := e.cache.getIndex(ctx)
	if err != nil {
		return nil, err
	}

	if cached, ok := e.results.get(entry.version, normalized, limit); ok {
		return cached, nil
	}

	positions := entry.index.Search(normalized, limit)
	results := make([]Result, 0, len(positions))
	for _, pos := range positions {
		id := entry.recordIDs[pos]
		rec, ok := entry.records.Get(id)
		if !ok {
			results = append(results, Result{ID: id, DisplayName: UnknownAddress})
			continue
		}
		results = append(results, Result{
			ID:             id,
			DisplayName:    rec.DisplayName,
			Region:         rec.Region,
			NormalizedText: rec.Normalized,
		})
	}

	e.results.set(entry.version, normalized, limit, results)
	return results, nil
}
