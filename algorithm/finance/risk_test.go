package finance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/montecarlo/xerrors"
)

func TestCalculateSharpeRatioZeroVariance(t *testing.T) {
	assert.Zero(t, CalculateSharpeRatio([]float64{0.05, 0.05, 0.05}))
	assert.Zero(t, CalculateSharpeRatio([]float64{0.1}))
}

func TestCalculateSharpeRatio(t *testing.T) {
	// mean 0.2, sample std 0.1
	assert.InDelta(t, 2.0, CalculateSharpeRatio([]float64{0.1, 0.2, 0.3}), 1e-12)
}

func TestCalculateMaxDrawdown(t *testing.T) {
	assert.InDelta(t, 0.25, CalculateMaxDrawdown([]float64{100, 120, 90, 110}), 1e-12)
	assert.Zero(t, CalculateMaxDrawdown([]float64{100, 101, 102}))
	assert.Zero(t, CalculateMaxDrawdown(nil))
}

func TestCalculateVaR(t *testing.T) {
	returns := []float64{-0.2, -0.1, 0, 0.1, 0.2}
	v, err := CalculateVaR(returns, 0.95)
	require.NoError(t, err)
	// P5 = -0.2 + 0.2*0.1
	assert.InDelta(t, 0.18, v, 1e-12)

	_, err = CalculateVaR(nil, 0.95)
	assert.True(t, errors.Is(err, xerrors.ErrEmptyReturns))
}

func TestCalculateStatistics(t *testing.T) {
	paths := [][]float64{
		{100, 90, 110},
		{100, 105, 100},
		{100, 80, 90},
	}
	s, err := CalculateStatistics("GBM", paths, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, "GBM", s.Model)
	assert.Equal(t, 3, s.Paths)
	assert.Equal(t, 2, s.Horizon)
	assert.InDelta(t, 100.0, s.Mean, 1e-12)
	assert.InDelta(t, 100.0, s.Median, 1e-12)
	assert.Equal(t, 110.0, s.BestCase)
	assert.Equal(t, 90.0, s.WorstCase)
	assert.InDelta(t, 0.2, s.MaxDrawdown, 1e-12)
	assert.Zero(t, s.SharpeRatio)

	_, err = CalculateStatistics("GBM", nil, 2, 100)
	assert.True(t, errors.Is(err, xerrors.ErrEmptyEnsemble))
}
