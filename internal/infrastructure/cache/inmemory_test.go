package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestInMemoryCache_SetAndGet(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	err := c.Set(ctx, "brand:abc", cachedProfile{Name: "Acme", Count: 3}, time.Minute)
	require.NoError(t, err)

	var got cachedProfile
	found, err := c.Get(ctx, "brand:abc", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestInMemoryCache_Miss(t *testing.T) {
	c := NewInMemoryCache()

	var got cachedProfile
	found, err := c.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", cachedProfile{Name: "x"}, time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	var got cachedProfile
	found, err := c.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())
}

func TestInMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "forever", cachedProfile{Name: "x"}, 0))

	var got cachedProfile
	found, err := c.Get(ctx, "forever", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInMemoryCache_Delete(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cachedProfile{}, time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	var got cachedProfile
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInMemoryCache_DeletePrefix(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "match:brand-a:p1", cachedProfile{}, time.Minute))
	require.NoError(t, c.Set(ctx, "match:brand-a:p2", cachedProfile{}, time.Minute))
	require.NoError(t, c.Set(ctx, "match:brand-b:p1", cachedProfile{}, time.Minute))

	require.NoError(t, c.DeletePrefix(ctx, "match:brand-a:"))

	var got cachedProfile
	found, _ := c.Get(ctx, "match:brand-a:p1", &got)
	assert.False(t, found)
	found, _ = c.Get(ctx, "match:brand-a:p2", &got)
	assert.False(t, found)
	found, _ = c.Get(ctx, "match:brand-b:p1", &got)
	assert.True(t, found)
}

func TestInMemoryCache_OverwriteRefreshesValue(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cachedProfile{Count: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, "k", cachedProfile{Count: 2}, time.Minute))

	var got cachedProfile
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, got.Count)
}
