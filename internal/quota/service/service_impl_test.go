package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mocksmith/mocksmith/internal/clock"
	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
	"github.com/mocksmith/mocksmith/internal/quota/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixedLimits(anonymous, apiKey int64) quotadomain.LimitSource {
	return func() quotadomain.Limits {
		return quotadomain.Limits{Anonymous: anonymous, APIKey: apiKey}
	}
}

func newTestService(clk clock.Clock, cs quotadomain.CounterStore, limits quotadomain.LimitSource) *Service {
	return New(Params{
		Log:    zap.NewNop(),
		Clock:  clk,
		Store:  cs,
		Limits: limits,
	}).(*Service)
}

func TestCheckFreshDay(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC))
	svc := newTestService(clk, store.NewMemoryStore(clk), fixedLimits(5, 100))
	ctx := context.Background()

	allowance := svc.Check(ctx, "ip:203.0.113.9", false, false)
	assert.True(t, allowance.Allowed)
	assert.Equal(t, int64(5), allowance.Limit)
	assert.Equal(t, int64(5), allowance.Remaining)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC).Unix(), allowance.ResetAt)
	assert.False(t, allowance.Degraded)
}

func TestCheckExhaustion(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC))
	svc := newTestService(clk, store.NewMemoryStore(clk), fixedLimits(3, 100))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowance := svc.Check(ctx, "ip:203.0.113.9", false, false)
		require.True(t, allowance.Allowed, "call %d should be allowed", i)
		svc.Increment(ctx, "ip:203.0.113.9")
	}

	allowance := svc.Check(ctx, "ip:203.0.113.9", false, false)
	assert.False(t, allowance.Allowed)
	assert.Equal(t, int64(0), allowance.Remaining)
}

func TestCheckBypass(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC))
	cs := store.NewMemoryStore(clk)
	svc := newTestService(clk, cs, fixedLimits(1, 1))
	ctx := context.Background()

	svc.Increment(ctx, "acct")
	svc.Increment(ctx, "acct")

	allowance := svc.Check(ctx, "acct", true, true)
	assert.True(t, allowance.Allowed)
	assert.Equal(t, quotadomain.Unlimited, allowance.Limit)
	assert.Equal(t, quotadomain.Unlimited, allowance.Remaining)
	assert.Equal(t, int64(0), allowance.ResetAt)
}

func TestDayRollover(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 23, 50, 0, 0, time.UTC))
	svc := newTestService(clk, store.NewMemoryStore(clk), fixedLimits(2, 100))
	ctx := context.Background()

	svc.Increment(ctx, "acct")
	svc.Increment(ctx, "acct")
	assert.False(t, svc.Check(ctx, "acct", false, false).Allowed)

	// Past midnight the date in the key changes, so the counter reads fresh.
	clk.Advance(20 * time.Minute)
	allowance := svc.Check(ctx, "acct", false, false)
	assert.True(t, allowance.Allowed)
	assert.Equal(t, int64(2), allowance.Remaining)
}

func TestAuthenticatedLimit(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestService(clk, store.NewMemoryStore(clk), fixedLimits(5, 100))
	ctx := context.Background()

	assert.Equal(t, int64(5), svc.Check(ctx, "x", false, false).Limit)
	assert.Equal(t, int64(100), svc.Check(ctx, "x", true, false).Limit)
}

func TestCurrent(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestService(clk, store.NewMemoryStore(clk), fixedLimits(5, 100))
	ctx := context.Background()

	usage := svc.Current(ctx, "acct", true)
	assert.Equal(t, int64(0), usage.Used)
	assert.Equal(t, int64(100), usage.Remaining)

	svc.Increment(ctx, "acct")
	usage = svc.Current(ctx, "acct", true)
	assert.Equal(t, int64(1), usage.Used)
	assert.Equal(t, int64(99), usage.Remaining)
}

type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("connection refused")
}

func (brokenStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestFailOpenOnStoreOutage(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := newTestService(clk, brokenStore{}, fixedLimits(5, 100))
	ctx := context.Background()

	allowance := svc.Check(ctx, "acct", false, false)
	assert.True(t, allowance.Allowed)
	assert.True(t, allowance.Degraded)
	assert.Equal(t, int64(5), allowance.Remaining)

	// Increment must swallow the failure.
	svc.Increment(ctx, "acct")

	usage := svc.Current(ctx, "acct", false)
	assert.True(t, usage.Degraded)
	assert.Equal(t, int64(0), usage.Used)
}
