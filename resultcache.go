package addrsearch

import (
	"container/list"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// resultCache is a small LRU of query results scoped to one snapshot
// version. A version change purges it wholesale; entries never outlive
// the cacheEntry they were computed against.
type resultCache struct {
	mu       sync.Mutex
	capacity int
	version  string
	entries  map[uint64]*list.Element
	lru      *list.List
}

type resultCacheEntry struct {
	key     uint64
	results []Result
}

func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		return nil
	}
	return &resultCache{
		capacity: capacity,
		entries:  make(map[uint64]*list.Element, capacity),
		lru:      list.New(),
	}
}

func resultCacheKey(normalized string, limit int) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(normalized)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.Itoa(limit))
	return h.Sum64()
}

func (c *resultCache) get(version, normalized string, limit int) ([]Result, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version != version {
		return nil, false
	}

	elem, ok := c.entries[resultCacheKey(normalized, limit)]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return elem.Value.(*resultCacheEntry).results, true
}

func (c *resultCache) set(version, normalized string, limit int, results []Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version != version {
		c.purgeLocked()
		c.version = version
	}

	key := resultCacheKey(normalized, limit)
	if elem, ok := c.entries[key]; ok {
		elem.Value.(*resultCacheEntry).results = results
		c.lru.MoveToFront(elem)
		return
	}

	c.entries[key] = c.lru.PushFront(&resultCacheEntry{key: key, results: results})
	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*resultCacheEntry).key)
	}
}

func (c *resultCache) reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked()
	c.version = ""
}

func (c *resultCache) purgeLocked() {
	c.entries = make(map[uint64]*list.Element, c.capacity)
	c.lru.Init()
}
