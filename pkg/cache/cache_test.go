package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemorySetNX(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory()

	ok, err := c.SetNX(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.SetNX(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	v, found := c.Get(ctx, "lock")
	require.True(t, found)
	require.Equal(t, "a", v)

	require.NoError(t, c.Delete(ctx, "lock"))
	ok, err = c.SetNX(ctx, "lock", "c", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	c := NewInMemory()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "report", "x", time.Hour))
	_, found := c.Get(ctx, "report")
	require.True(t, found)

	now = now.Add(2 * time.Hour)
	_, found = c.Get(ctx, "report")
	require.False(t, found)

	ok, err := c.SetNX(ctx, "report", "y", 0)
	require.NoError(t, err)
	require.True(t, ok)
}
