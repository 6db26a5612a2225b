package embedcache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_GetPut(t *testing.T) {
	ctx := context.Background()
	c := openMemory(t)

	_, ok, err := c.Get(ctx, "clip", "aphid")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "clip", "aphid", []float32{0.5, -1.25, 3}))

	v, ok, err := c.Get(ctx, "clip", "aphid")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{0.5, -1.25, 3}, v)

	// other models do not share entries
	_, ok, err = c.Get(ctx, "other", "aphid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_PutReplaces(t *testing.T) {
	ctx := context.Background()
	c := openMemory(t)

	require.NoError(t, c.Put(ctx, "clip", "mite", []float32{1}))
	require.NoError(t, c.Put(ctx, "clip", "mite", []float32{2, 3}))

	v, ok, err := c.Get(ctx, "clip", "mite")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{2, 3}, v)

	n, err := c.Count(ctx, "clip")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCache_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "embeddings.db")

	c, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "clip", "thrips", []float32{0.1, 0.2}))
	require.NoError(t, c.Close())

	c, err = Open(ctx, path)
	require.NoError(t, err)
	defer c.Close()

	v, ok, err := c.Get(ctx, "clip", "thrips")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, v)
}
