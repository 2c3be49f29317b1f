// Package finance 提供路径集合的描述统计、风险指标、障碍穿越检测与组合聚合.
package finance

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wyfcoding/montecarlo/xerrors"
)

// Summary 一组样本的描述统计.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P5     float64 `json:"p5"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
}

// Describe 计算样本的均值、样本标准差、中位数、分位数与极值.
func Describe(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, xerrors.Errorf(xerrors.ErrEmptyEnsemble, "no values to describe")
	}
	sorted := SortedCopy(values)
	return Summary{
		Mean:   stat.Mean(values, nil),
		StdDev: StdDev(values),
		Median: Percentile(sorted, 0.5),
		P5:     Percentile(sorted, 0.05),
		P25:    Percentile(sorted, 0.25),
		P75:    Percentile(sorted, 0.75),
		P95:    Percentile(sorted, 0.95),
		Max:    floats.Max(values),
		Min:    floats.Min(values),
	}, nil
}

// StdDev 样本标准差 (分母 n-1)，少于 2 个样本时为 0.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// SortedCopy 返回升序排列的副本，不修改输入.
func SortedCopy(values []float64) []float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted
}

// Percentile 在升序样本上按顺序统计量线性插值 (Hyndman-Fan 第 7 类) 求 p 分位数, p ∈ [0, 1].
// h = (n-1)p，结果为 x[floor(h)] 与 x[floor(h)+1] 之间的线性插值.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// TerminalPrices 提取每条路径的末端价格.
func TerminalPrices(paths [][]float64) []float64 {
	out := make([]float64, len(paths))
	for i, path := range paths {
		out[i] = path[len(path)-1]
	}
	return out
}
