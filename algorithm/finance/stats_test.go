package finance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/montecarlo/xerrors"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.5, 3},
		{0.25, 2},
		{0.05, 1.2},
		{0.95, 4.8},
		{1, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percentile(sorted, tt.p), 1e-12, "p=%v", tt.p)
	}
	assert.True(t, math.IsNaN(Percentile(nil, 0.5)))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 0.3))
}

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{5, 1, 4, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), s.StdDev, 1e-12)
	assert.InDelta(t, 3.0, s.Median, 1e-12)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 1.0, s.Min)

	_, err = Describe(nil)
	assert.True(t, errors.Is(err, xerrors.ErrEmptyEnsemble))
}

func TestSortedCopyDoesNotMutate(t *testing.T) {
	in := []float64{3, 1, 2}
	out := SortedCopy(in)
	assert.Equal(t, []float64{1, 2, 3}, out)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestStdDevSingleSample(t *testing.T) {
	assert.Zero(t, StdDev([]float64{42}))
}
