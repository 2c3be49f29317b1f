package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/montecarlo/metrics"
)

type payload struct {
	Mean float64 `json:"mean"`
}

func TestBigCacheGetSet(t *testing.T) {
	m := metrics.NewMetrics()
	c, err := NewBigCache(Config{TTL: time.Minute, Shards: 16, MaxMB: 8}, m)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	var got payload
	assert.True(t, errors.Is(c.Get(ctx, "k", &got), ErrMiss))

	require.NoError(t, c.Set(ctx, "k", payload{Mean: 101.5}))
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, 101.5, got.Mean)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, "k", "absent"))
	assert.True(t, errors.Is(c.Get(ctx, "k", &got), ErrMiss))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheRequestsTotal.WithLabelValues("miss")))
}

func TestKeyIsStable(t *testing.T) {
	a, err := Key("single", map[string]any{"seed": 1, "paths": 10})
	require.NoError(t, err)
	b, err := Key("single", map[string]any{"paths": 10, "seed": 1})
	require.NoError(t, err)
	c, err := Key("single", map[string]any{"paths": 11, "seed": 1})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "single:")
}
