package cachestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryProvider(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider()

	names, err := p.Namespaces(ctx)
	require.NoError(t, err)
	require.Empty(t, names)

	h, err := p.Open(ctx, DefaultNamespace)
	require.NoError(t, err)

	_, err = h.Match(ctx, "https://cdn.example.com/f.json.gz")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, h.Put(ctx, "https://cdn.example.com/f.json.gz", []byte("bytes")))

	data, err := h.Match(ctx, "https://cdn.example.com/f.json.gz")
	require.NoError(t, err)
	require.Equal(t, []byte("bytes"), data)

	// Reopening the namespace sees the same entries.
	h2, err := p.Open(ctx, DefaultNamespace)
	require.NoError(t, err)
	data, err = h2.Match(ctx, "https://cdn.example.com/f.json.gz")
	require.NoError(t, err)
	require.Equal(t, []byte("bytes"), data)

	names, err = p.Namespaces(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{DefaultNamespace}, names)

	require.NoError(t, h.Put(ctx, "https://cdn.example.com/a.json.gz", []byte("a")))
	keys, err := h.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://cdn.example.com/a.json.gz",
		"https://cdn.example.com/f.json.gz",
	}, keys)
}
