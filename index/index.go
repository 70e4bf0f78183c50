// Package index provides the in-memory token-prefix search structure
// built from a decoded snapshot, and the display lookup that maps result
// positions back to human-readable records.
//
// A SearchIndex is built once per snapshot version and never mutated;
// a new version means a full rebuild.
package index

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// SearchIndex is an inverted index from normalized tokens to record
// positions, supporting token-prefix lookup. Safe for concurrent reads.
type SearchIndex struct {
	terms    []string // sorted unique tokens
	postings map[string]*roaring.Bitmap
	count    int
}

// Build constructs a SearchIndex over the given search strings. The
// position of each string is the posting value, so results map directly
// into the parallel record-id slice.
func Build(searchStrings []string) *SearchIndex {
	postings := make(map[string]*roaring.Bitmap)

	for pos, s := range searchStrings {
		for _, tok := range Tokenize(s) {
			bm, ok := postings[tok]
			if !ok {
				bm = roaring.New()
				postings[tok] = bm
			}
			bm.Add(uint32(pos))
		}
	}

	terms := make([]string, 0, len(postings))
	for term := range postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	return &SearchIndex{
		terms:    terms,
		postings: postings,
		count:    len(searchStrings),
	}
}

// Len returns the number of indexed records.
func (ix *SearchIndex) Len() int { return ix.count }

// TermCount returns the number of distinct tokens.
func (ix *SearchIndex) TermCount() int { return len(ix.terms) }

// Search normalizes text and returns the positions of records matching
// every query token as a prefix (ALL-token policy), ascending, truncated
// to limit. A limit <= 0 means no truncation.
func (ix *SearchIndex) Search(text string, limit int) []uint32 {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	var matched *roaring.Bitmap
	for _, tok := range tokens {
		bm := ix.prefixPostings(tok)
		if bm.IsEmpty() {
			return nil
		}
		if matched == nil {
			matched = bm
		} else {
			matched.And(bm)
			if matched.IsEmpty() {
				return nil
			}
		}
	}

	n := int(matched.GetCardinality())
	if limit > 0 && n > limit {
		n = limit
	}
	results := make([]uint32, 0, n)
	it := matched.Iterator()
	for it.HasNext() && len(results) < n {
		results = append(results, it.Next())
	}
	return results
}

// prefixPostings ORs the postings of every term sharing the prefix.
func (ix *SearchIndex) prefixPostings(prefix string) *roaring.Bitmap {
	out := roaring.New()
	start := sort.SearchStrings(ix.terms, prefix)
	for i := start; i < len(ix.terms) && strings.HasPrefix(ix.terms[i], prefix); i++ {
		out.Or(ix.postings[ix.terms[i]])
	}
	return out
}
