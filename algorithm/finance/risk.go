package finance

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wyfcoding/montecarlo/xerrors"
)

// SimStats 单标的路径集合的统计快照，计算后只读.
type SimStats struct {
	Model       string  `json:"model"`
	Paths       int     `json:"paths"`
	Horizon     int     `json:"horizon"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"std_dev"`
	Median      float64 `json:"median"`
	P5          float64 `json:"p5"`
	P25         float64 `json:"p25"`
	P75         float64 `json:"p75"`
	P95         float64 `json:"p95"`
	VaR95       float64 `json:"var95"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	BestCase    float64 `json:"best_case"`
	WorstCase   float64 `json:"worst_case"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// SimpleReturns 计算每个末端价格相对初始价格的简单收益率.
func SimpleReturns(terminal []float64, initialPrice float64) []float64 {
	out := make([]float64, len(terminal))
	for i, p := range terminal {
		out[i] = (p - initialPrice) / initialPrice
	}
	return out
}

// CalculateVaR 历史模拟法 VaR：收益分布 (1-confidence) 分位数的相反数，损失以正数表示.
func CalculateVaR(returns []float64, confidence float64) (float64, error) {
	if len(returns) == 0 {
		return 0, xerrors.Errorf(xerrors.ErrEmptyReturns, "no returns for VaR")
	}
	return -Percentile(SortedCopy(returns), 1-confidence), nil
}

// CalculateSharpeRatio 计算夏普比率，无风险利率取 0；标准差为 0 时返回 0.
func CalculateSharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	std := StdDev(returns)
	if std == 0 {
		return 0
	}
	return stat.Mean(returns, nil) / std
}

// CalculateMaxDrawdown 计算单条路径的最大回撤 (peak-price)/peak.
func CalculateMaxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	peak := prices[0]
	var maxDrawdown float64
	for _, p := range prices {
		if p > peak {
			peak = p
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - p) / peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown
}

// EnsembleMaxDrawdown 所有路径中单路径最大回撤的最大值.
func EnsembleMaxDrawdown(paths [][]float64) float64 {
	var worst float64
	for _, path := range paths {
		if dd := CalculateMaxDrawdown(path); dd > worst {
			worst = dd
		}
	}
	return worst
}

// CalculateStatistics 将单标的路径集合归约为 SimStats.
func CalculateStatistics(model string, paths [][]float64, horizon int, initialPrice float64) (*SimStats, error) {
	if len(paths) == 0 {
		return nil, xerrors.Errorf(xerrors.ErrEmptyEnsemble, "no terminal prices to analyze")
	}

	terminal := TerminalPrices(paths)
	summary, err := Describe(terminal)
	if err != nil {
		return nil, err
	}

	returns := SimpleReturns(terminal, initialPrice)
	var95, err := CalculateVaR(returns, 0.95)
	if err != nil {
		return nil, err
	}

	return &SimStats{
		Model:       model,
		Paths:       len(paths),
		Horizon:     horizon,
		Mean:        summary.Mean,
		StdDev:      summary.StdDev,
		Median:      summary.Median,
		P5:          summary.P5,
		P25:         summary.P25,
		P75:         summary.P75,
		P95:         summary.P95,
		VaR95:       var95,
		SharpeRatio: CalculateSharpeRatio(returns),
		BestCase:    summary.Max,
		WorstCase:   summary.Min,
		MaxDrawdown: EnsembleMaxDrawdown(paths),
	}, nil
}
