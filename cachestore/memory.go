package cachestore

import (
	"context"
	"sort"
	"sync"
)

// MemoryProvider is an in-memory Provider implementation.
// Thread-safe for concurrent reads and writes.
type MemoryProvider struct {
	mu         sync.RWMutex
	namespaces map[string]*memoryHandle
}

// NewMemoryProvider creates an empty in-memory cache provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		namespaces: make(map[string]*memoryHandle),
	}
}

// Open returns the named namespace, creating it if absent.
func (p *MemoryProvider) Open(_ context.Context, namespace string) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h, ok := p.namespaces[namespace]
	if !ok {
		h = &memoryHandle{entries: make(map[string][]byte)}
		p.namespaces[namespace] = h
	}
	return h, nil
}

// Namespaces lists all namespaces that have been opened.
func (p *MemoryProvider) Namespaces(_ context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.namespaces))
	for name := range p.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

type memoryHandle struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func (h *memoryHandle) Match(_ context.Context, url string) ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, ok := h.entries[url]
	if !ok {
		return nil, ErrMiss
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

func (h *memoryHandle) Put(_ context.Context, url string, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	h.entries[url] = copied
	return nil
}

func (h *memoryHandle) Keys(_ context.Context) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	keys := make([]string, 0, len(h.entries))
	for url := range h.entries {
		keys = append(keys, url)
	}
	sort.Strings(keys)
	return keys, nil
}
