package dedupe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/market-pulse/backend/internal/dedupe"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock { return &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)} }

func TestCacheSeenDuplicate(t *testing.T) {
	cache := dedupe.NewCache(10, time.Minute)
	require.False(t, cache.Seen("alpha"))
	cache.Mark("alpha")
	require.True(t, cache.Seen("alpha"))
}

func TestCacheTTLExpiry(t *testing.T) {
	clk := newClock()
	cache := dedupe.NewCache(10, time.Minute).WithClock(clk.now)

	cache.Mark("beta")
	clk.advance(59 * time.Second)
	require.True(t, cache.Seen("beta"))

	clk.advance(2 * time.Second)
	require.False(t, cache.Seen("beta"))

	cache.Mark("gamma")
	require.Equal(t, 1, cache.Len())
}

func TestCacheCapacityEvictsOldest(t *testing.T) {
	clk := newClock()
	cache := dedupe.NewCache(1, time.Minute).WithClock(clk.now)

	cache.Mark("first")
	clk.advance(time.Second)
	cache.Mark("second")

	require.False(t, cache.Seen("first"))
	require.True(t, cache.Seen("second"))
}

func TestCacheRemarkKeepsKey(t *testing.T) {
	clk := newClock()
	cache := dedupe.NewCache(2, time.Minute).WithClock(clk.now)

	cache.Mark("a")
	clk.advance(time.Second)
	cache.Mark("b")
	clk.advance(time.Second)
	cache.Mark("a")
	clk.advance(time.Second)
	cache.Mark("c")

	require.True(t, cache.Seen("a"))
	require.True(t, cache.Seen("c"))
	require.False(t, cache.Seen("b"))
}
