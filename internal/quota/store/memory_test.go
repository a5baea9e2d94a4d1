package store

import (
	"context"
	"testing"
	"time"

	"github.com/mocksmith/mocksmith/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreIncrementAndGet(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s := NewMemoryStore(clk)
	ctx := context.Background()

	count, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = s.Increment(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = s.Increment(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMemoryStoreExpiry(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s := NewMemoryStore(clk)
	ctx := context.Background()

	_, err := s.Increment(ctx, "k", time.Hour)
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)

	count, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Incrementing an expired key starts over at 1.
	count, err = s.Increment(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
