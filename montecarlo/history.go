package montecarlo

import (
	"maps"
	"slices"

	"github.com/wyfcoding/montecarlo/algorithm/finance"
)

// HistoricalReturns 符号到历史对数收益率序列的只读表，构造时复制输入.
// Bootstrap 模型从中有放回抽样，其它模型忽略它.
type HistoricalReturns struct {
	bySymbol map[string][]float64
}

// NewHistoricalReturns 由符号到对数收益率的映射构造只读表.
func NewHistoricalReturns(returns map[string][]float64) HistoricalReturns {
	m := make(map[string][]float64, len(returns))
	for sym, r := range returns {
		m[sym] = slices.Clone(r)
	}
	return HistoricalReturns{bySymbol: m}
}

// HistoricalReturnsFromPrices 由收盘价序列计算对数收益率后构造只读表.
func HistoricalReturnsFromPrices(prices map[string][]float64) (HistoricalReturns, error) {
	m := make(map[string][]float64, len(prices))
	for sym, p := range prices {
		r, err := finance.LogReturns(p)
		if err != nil {
			return HistoricalReturns{}, err
		}
		m[sym] = r
	}
	return HistoricalReturns{bySymbol: m}, nil
}

// Returns 返回符号对应的收益率序列，不存在时为 nil. 调用方不得修改返回值.
func (h HistoricalReturns) Returns(symbol string) []float64 {
	return slices.Clip(h.bySymbol[symbol])
}

// Symbols 返回排序后的符号列表.
func (h HistoricalReturns) Symbols() []string {
	return slices.Sorted(maps.Keys(h.bySymbol))
}

// Len 表中的符号数量.
func (h HistoricalReturns) Len() int {
	return len(h.bySymbol)
}
