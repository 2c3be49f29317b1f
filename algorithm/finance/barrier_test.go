package finance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/montecarlo/xerrors"
)

func ptr(v float64) *float64 { return &v }

func TestCheckStopLoss(t *testing.T) {
	ev := CheckStopLoss([]float64{100, 95, 90, 85, 80}, 92)
	require.True(t, ev.Hit)
	assert.Equal(t, 2, *ev.TimeStep)
	assert.InDelta(t, 90.0, *ev.PriceAtHit, 1e-12)

	ev = CheckStopLoss([]float64{100, 101, 102}, 92)
	assert.False(t, ev.Hit)
	assert.Nil(t, ev.TimeStep)
	assert.Nil(t, ev.PriceAtHit)
}

func TestCheckTarget(t *testing.T) {
	ev := CheckTarget([]float64{100, 105, 110, 115, 120}, 112)
	require.True(t, ev.Hit)
	assert.Equal(t, 3, *ev.TimeStep)
	assert.InDelta(t, 115.0, *ev.PriceAtHit, 1e-12)

	assert.False(t, CheckTarget([]float64{100, 99}, 112).Hit)
}

func TestCheckBarriersIndependent(t *testing.T) {
	path := []float64{100, 120, 80}
	sl, tgt := CheckBarriers(path, ptr(90), ptr(110))
	assert.Equal(t, 2, *sl.TimeStep)
	assert.Equal(t, 1, *tgt.TimeStep)

	sl, tgt = CheckBarriers(path, nil, nil)
	assert.Equal(t, NotHit(), sl)
	assert.Equal(t, NotHit(), tgt)
}

func TestCalculateHitStatistics(t *testing.T) {
	paths := [][]float64{
		{100, 95, 90, 85},
		{100, 105, 110, 115},
		{100, 101, 102, 103},
	}
	hs, err := CalculateHitStatistics(paths, ptr(92), ptr(112))
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, hs.ProbHitStopLoss, 1e-12)
	assert.InDelta(t, 1.0/3.0, hs.ProbHitTarget, 1e-12)
	require.NotNil(t, hs.AvgTimeToStopLoss)
	require.NotNil(t, hs.AvgTimeToTarget)
	assert.InDelta(t, 2.0, *hs.AvgTimeToStopLoss, 1e-12)
	assert.InDelta(t, 3.0, *hs.AvgTimeToTarget, 1e-12)
}

func TestCalculateHitStatisticsNoHits(t *testing.T) {
	hs, err := CalculateHitStatistics([][]float64{{100, 100}}, ptr(50), nil)
	require.NoError(t, err)
	assert.Zero(t, hs.ProbHitStopLoss)
	assert.Zero(t, hs.ProbHitTarget)
	assert.Nil(t, hs.AvgTimeToStopLoss)
	assert.Nil(t, hs.AvgTimeToTarget)
}

func TestCalculateHitStatisticsEmpty(t *testing.T) {
	_, err := CalculateHitStatistics(nil, ptr(50), nil)
	assert.True(t, errors.Is(err, xerrors.ErrEmptyEnsemble))
}
