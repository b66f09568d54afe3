package spacex

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/launch-data-etl/internal/observability"
)

// --- mock for cache tests ---

type countingLookup struct {
	rocketCalls    int
	payloadCalls   int
	launchpadCalls int
	err            error
}

func (m *countingLookup) Rocket(_ context.Context, id string) (Rocket, error) {
	m.rocketCalls++
	return Rocket{Name: "rocket-" + id}, m.err
}

func (m *countingLookup) Payload(_ context.Context, _ string) (Payload, error) {
	m.payloadCalls++
	mass := 100.0
	return Payload{MassKg: &mass}, m.err
}

func (m *countingLookup) Launchpad(_ context.Context, id string) (Launchpad, error) {
	m.launchpadCalls++
	return Launchpad{Name: "pad-" + id}, m.err
}

// --- CachedLookup tests ---

func TestCachedLookup_Hit(t *testing.T) {
	inner := &countingLookup{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedLookup(inner, 10, metrics)
	ctx := context.Background()

	for range 3 {
		r, err := cached.Rocket(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "rocket-r1", r.Name)
	}
	assert.Equal(t, 1, inner.rocketCalls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.APICache.WithLabelValues("rockets", "miss")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.APICache.WithLabelValues("rockets", "hit")), 0)
}

func TestCachedLookup_ResourcesAreSeparate(t *testing.T) {
	inner := &countingLookup{}
	cached := NewCachedLookup(inner, 10, observability.NewMetricsForTesting())
	ctx := context.Background()

	_, err := cached.Rocket(ctx, "x")
	require.NoError(t, err)
	pad, err := cached.Launchpad(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "pad-x", pad.Name)
	_, err = cached.Payload(ctx, "x")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.rocketCalls)
	assert.Equal(t, 1, inner.launchpadCalls)
	assert.Equal(t, 1, inner.payloadCalls)
}

func TestCachedLookup_ErrorsNotCached(t *testing.T) {
	inner := &countingLookup{err: errors.New("timeout")}
	cached := NewCachedLookup(inner, 10, observability.NewMetricsForTesting())
	ctx := context.Background()

	_, err := cached.Launchpad(ctx, "lp")
	require.Error(t, err)

	inner.err = nil
	pad, err := cached.Launchpad(ctx, "lp")
	require.NoError(t, err)
	assert.Equal(t, "pad-lp", pad.Name)
	assert.Equal(t, 2, inner.launchpadCalls)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[int](2)
	c.put("a", 1)
	c.put("b", 2)

	// Touch "a" so "b" becomes least recently used.
	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.put("c", 3)
	assert.Equal(t, 2, c.size())

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[string](2)
	c.put("k", "old")
	c.put("k", "new")

	v, ok := c.get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, c.size())
}
