package finance

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wyfcoding/montecarlo/xerrors"
)

// Holding 组合中一个标的的静态持仓描述.
type Holding struct {
	Symbol       string
	InitialPrice float64
	Weight       float64
}

// InstrumentStats 组合内单标的统计：单标的统计与障碍触发统计.
type InstrumentStats struct {
	Symbol string `json:"symbol"`
	SimStats
	HitStatistics
}

// PortfolioStats 组合层面的统计快照，Instruments 以标的符号为键.
type PortfolioStats struct {
	MeanReturn   float64 `json:"mean_portfolio_return"`
	MedianReturn float64 `json:"median_portfolio_return"`
	StdReturn    float64 `json:"std_portfolio_return"`

	ProbProfit float64 `json:"prob_profit"`
	ProbLoss   float64 `json:"prob_loss"`
	MeanProfit float64 `json:"mean_profit"`
	MeanLoss   float64 `json:"mean_loss"`

	VaR95 float64 `json:"var95"`
	// MaxDrawdown 所有组合价值路径上的真实峰谷回撤最大值.
	MaxDrawdown float64 `json:"max_drawdown"`
	// WorstReturnDrawdown 最差末端收益率的绝对值，兼容旧口径.
	WorstReturnDrawdown float64 `json:"worst_return_drawdown"`

	Instruments map[string]InstrumentStats `json:"instruments"`
}

// ShareCounts 按初始价格将 capital*weight 折算为固定股数，期间不再调仓.
func ShareCounts(holdings []Holding, capital float64) []float64 {
	shares := make([]float64, len(holdings))
	for i, h := range holdings {
		shares[i] = capital * h.Weight / h.InitialPrice
	}
	return shares
}

// PortfolioValuePaths 计算每次试验的组合价值路径.
// ensembles[k] 是 holdings[k] 的路径集合，各集合的路径数与路径长度必须一致.
func PortfolioValuePaths(holdings []Holding, capital float64, ensembles [][][]float64) ([][]float64, error) {
	if len(holdings) == 0 || len(ensembles) == 0 {
		return nil, xerrors.Errorf(xerrors.ErrEmptyEnsemble, "no instrument ensembles to combine")
	}
	if len(holdings) != len(ensembles) {
		return nil, xerrors.Errorf(xerrors.ErrShapeMismatch, "%d holdings but %d ensembles", len(holdings), len(ensembles))
	}

	numPaths := len(ensembles[0])
	if numPaths == 0 {
		return nil, xerrors.Errorf(xerrors.ErrEmptyEnsemble, "instrument %s has no paths", holdings[0].Symbol)
	}
	length := len(ensembles[0][0])
	for k, ens := range ensembles {
		if len(ens) != numPaths {
			return nil, xerrors.Errorf(xerrors.ErrShapeMismatch, "instrument %s has %d paths, want %d", holdings[k].Symbol, len(ens), numPaths)
		}
		for i, path := range ens {
			if len(path) != length {
				return nil, xerrors.Errorf(xerrors.ErrShapeMismatch, "instrument %s path %d has length %d, want %d", holdings[k].Symbol, i, len(path), length)
			}
		}
	}

	shares := ShareCounts(holdings, capital)
	values := make([][]float64, numPaths)
	for i := range numPaths {
		v := make([]float64, length)
		for k, ens := range ensembles {
			floats.AddScaled(v, shares[k], ens[i])
		}
		values[i] = v
	}
	return values, nil
}

// PortfolioReturns 每次试验末端组合价值相对初始资金的收益率.
func PortfolioReturns(values [][]float64, capital float64) []float64 {
	return SimpleReturns(TerminalPrices(values), capital)
}

// CalculatePortfolioLevelStats 由组合收益分布与价值路径计算组合层面统计.
func CalculatePortfolioLevelStats(returns []float64, values [][]float64, instruments map[string]InstrumentStats) (*PortfolioStats, error) {
	if len(returns) == 0 {
		return nil, xerrors.Errorf(xerrors.ErrEmptyReturns, "no portfolio returns to analyze")
	}

	var profits, losses []float64
	for _, r := range returns {
		switch {
		case r > 0:
			profits = append(profits, r)
		case r < 0:
			losses = append(losses, r)
		}
	}

	n := float64(len(returns))
	sorted := SortedCopy(returns)
	varIdx := min(int(n*0.05), len(sorted)-1)

	return &PortfolioStats{
		MeanReturn:          stat.Mean(returns, nil),
		MedianReturn:        Percentile(sorted, 0.5),
		StdReturn:           StdDev(returns),
		ProbProfit:          float64(len(profits)) / n,
		ProbLoss:            float64(len(losses)) / n,
		MeanProfit:          meanOrZero(profits),
		MeanLoss:            meanOrZero(losses),
		VaR95:               -sorted[varIdx],
		MaxDrawdown:         EnsembleMaxDrawdown(values),
		WorstReturnDrawdown: math.Abs(sorted[0]),
		Instruments:         instruments,
	}, nil
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
