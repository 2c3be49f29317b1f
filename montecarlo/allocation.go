package montecarlo

import "github.com/shopspring/decimal"

// Allocation 单个标的的资金分配: 金额保留 2 位小数，股数保留 4 位.
type Allocation struct {
	Symbol       string          `json:"symbol"`
	Weight       decimal.Decimal `json:"weight"`
	InitialPrice decimal.Decimal `json:"initial_price"`
	Capital      decimal.Decimal `json:"capital"`
	Shares       decimal.Decimal `json:"shares"`
}

// Allocate 为已通过校验的组合计算静态资金分配方案.
func Allocate(p *Portfolio) ([]Allocation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	total := decimal.NewFromFloat(p.TotalCapital)
	out := make([]Allocation, len(p.Instruments))
	for i, inst := range p.Instruments {
		weight := decimal.NewFromFloat(inst.Weight)
		price := decimal.NewFromFloat(inst.InitialPrice)
		capital := total.Mul(weight)
		out[i] = Allocation{
			Symbol:       inst.Symbol,
			Weight:       weight,
			InitialPrice: price,
			Capital:      capital.Round(2),
			Shares:       capital.Div(price).Round(4),
		}
	}
	return out, nil
}

// ProfitAt 按给定价格计算该分配相对建仓成本的盈亏，保留 2 位小数.
func (a Allocation) ProfitAt(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Sub(a.InitialPrice).Mul(a.Shares).Round(2)
}
