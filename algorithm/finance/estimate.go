package finance

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wyfcoding/montecarlo/xerrors"
)

// LogReturns 由价格序列计算对数收益率 ln(p[i]/p[i-1]).
func LogReturns(prices []float64) ([]float64, error) {
	for i, p := range prices {
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, xerrors.Errorf(xerrors.ErrInvalidPrice, "price at index %d must be positive, got %v", i, p)
		}
	}
	if len(prices) < 2 {
		return []float64{}, nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return out, nil
}

// EstimateParameters 对数收益率的闭式均值与样本标准差，至少需要 2 个观测.
func EstimateParameters(logReturns []float64) (mu, sigma float64, err error) {
	if len(logReturns) < 2 {
		return 0, 0, xerrors.Errorf(xerrors.ErrInsufficientData, "need at least 2 log returns, got %d", len(logReturns))
	}
	mu, sigma = stat.MeanStdDev(logReturns, nil)
	return mu, sigma, nil
}
