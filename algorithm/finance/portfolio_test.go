package finance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/montecarlo/xerrors"
)

func TestPortfolioValuePaths(t *testing.T) {
	holdings := []Holding{
		{Symbol: "AAA", InitialPrice: 100, Weight: 0.5},
		{Symbol: "BBB", InitialPrice: 50, Weight: 0.5},
	}
	ensembles := [][][]float64{
		{{100, 110}, {100, 90}},
		{{50, 50}, {50, 60}},
	}
	values, err := PortfolioValuePaths(holdings, 1000, ensembles)
	require.NoError(t, err)
	require.Len(t, values, 2)
	// 5 shares of AAA, 10 shares of BBB
	assert.InDeltaSlice(t, []float64{1000, 1050}, values[0], 1e-9)
	assert.InDeltaSlice(t, []float64{1000, 1050}, values[1], 1e-9)

	returns := PortfolioReturns(values, 1000)
	assert.InDeltaSlice(t, []float64{0.05, 0.05}, returns, 1e-12)
}

func TestPortfolioValuePathsShapeMismatch(t *testing.T) {
	holdings := []Holding{
		{Symbol: "AAA", InitialPrice: 100, Weight: 0.5},
		{Symbol: "BBB", InitialPrice: 50, Weight: 0.5},
	}
	_, err := PortfolioValuePaths(holdings, 1000, [][][]float64{
		{{100, 110}},
		{{50, 50, 50}},
	})
	assert.True(t, errors.Is(err, xerrors.ErrShapeMismatch))

	_, err = PortfolioValuePaths(nil, 1000, nil)
	assert.True(t, errors.Is(err, xerrors.ErrEmptyEnsemble))
}

func TestCalculatePortfolioLevelStats(t *testing.T) {
	returns := []float64{0.1, -0.05, 0.2, -0.1, 0}
	values := [][]float64{
		{1000, 1200, 1100},
		{1000, 950, 950},
		{1000, 1100, 1200},
		{1000, 800, 900},
		{1000, 1000, 1000},
	}
	ps, err := CalculatePortfolioLevelStats(returns, values, map[string]InstrumentStats{})
	require.NoError(t, err)
	assert.InDelta(t, 0.03, ps.MeanReturn, 1e-12)
	assert.InDelta(t, 0.0, ps.MedianReturn, 1e-12)
	assert.InDelta(t, 0.4, ps.ProbProfit, 1e-12)
	assert.InDelta(t, 0.4, ps.ProbLoss, 1e-12)
	assert.InDelta(t, 0.15, ps.MeanProfit, 1e-12)
	assert.InDelta(t, -0.075, ps.MeanLoss, 1e-12)
	// floor(0.05*5) = 0
	assert.InDelta(t, 0.1, ps.VaR95, 1e-12)
	assert.InDelta(t, 0.2, ps.MaxDrawdown, 1e-12)
	assert.InDelta(t, 0.1, ps.WorstReturnDrawdown, 1e-12)

	_, err = CalculatePortfolioLevelStats(nil, nil, nil)
	assert.True(t, errors.Is(err, xerrors.ErrEmptyReturns))
}

func TestCalculatePortfolioLevelStatsNoProfit(t *testing.T) {
	ps, err := CalculatePortfolioLevelStats([]float64{-0.1, -0.2}, [][]float64{{1, 0.9}, {1, 0.8}}, nil)
	require.NoError(t, err)
	assert.Zero(t, ps.MeanProfit)
	assert.Zero(t, ps.ProbProfit)
}
