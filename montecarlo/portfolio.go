package montecarlo

import (
	"math"

	"github.com/wyfcoding/montecarlo/xerrors"
)

// WeightTolerance 权重之和与 1 的最大允许偏差.
const WeightTolerance = 0.001

// Portfolio 有序的标的列表与总资金. 权重不会被自动修正.
type Portfolio struct {
	Instruments  []InstrumentConfig `json:"instruments"`
	TotalCapital float64            `json:"total_capital"`
}

// NewPortfolio 创建空组合.
func NewPortfolio(totalCapital float64) *Portfolio {
	return &Portfolio{TotalCapital: totalCapital}
}

// AddInstrument 追加标的，符号重复时返回 ErrDuplicateSymbol.
func (p *Portfolio) AddInstrument(inst InstrumentConfig) error {
	if _, ok := p.Instrument(inst.Symbol); ok {
		return xerrors.Errorf(xerrors.ErrDuplicateSymbol, "instrument %s already exists in portfolio", inst.Symbol).
			WithContext("symbol", inst.Symbol)
	}
	p.Instruments = append(p.Instruments, inst)
	return nil
}

// RemoveInstrument 按符号删除标的，不存在时返回 ErrSymbolNotFound.
func (p *Portfolio) RemoveInstrument(symbol string) error {
	for i, inst := range p.Instruments {
		if inst.Symbol == symbol {
			p.Instruments = append(p.Instruments[:i], p.Instruments[i+1:]...)
			return nil
		}
	}
	return xerrors.Errorf(xerrors.ErrSymbolNotFound, "instrument %s not found in portfolio", symbol).
		WithContext("symbol", symbol)
}

// Instrument 按符号查找标的.
func (p *Portfolio) Instrument(symbol string) (InstrumentConfig, bool) {
	for _, inst := range p.Instruments {
		if inst.Symbol == symbol {
			return inst, true
		}
	}
	return InstrumentConfig{}, false
}

// Symbols 按组合顺序返回全部符号.
func (p *Portfolio) Symbols() []string {
	out := make([]string, len(p.Instruments))
	for i, inst := range p.Instruments {
		out[i] = inst.Symbol
	}
	return out
}

// TotalWeight 所有标的权重之和.
func (p *Portfolio) TotalWeight() float64 {
	var total float64
	for _, inst := range p.Instruments {
		total += inst.Weight
	}
	return total
}

// AutoBalanceWeights 将所有标的设为等权. 只在显式调用时生效.
func (p *Portfolio) AutoBalanceWeights() {
	if len(p.Instruments) == 0 {
		return
	}
	w := 1.0 / float64(len(p.Instruments))
	for i := range p.Instruments {
		p.Instruments[i].Weight = w
	}
}

// Validate 校验组合: 非空、资金为正、符号唯一、权重之和为 1 (容差 0.001) 以及每个标的自身的约束.
func (p *Portfolio) Validate() error {
	if p == nil || len(p.Instruments) == 0 {
		return xerrors.Errorf(xerrors.ErrEmptyPortfolio, "portfolio must contain at least one instrument")
	}
	if math.IsNaN(p.TotalCapital) || math.IsInf(p.TotalCapital, 0) || p.TotalCapital <= 0 {
		return xerrors.Errorf(xerrors.ErrInvalidCapital, "total capital must be positive, got %v", p.TotalCapital)
	}

	seen := make(map[string]struct{}, len(p.Instruments))
	for _, inst := range p.Instruments {
		if _, dup := seen[inst.Symbol]; dup {
			return xerrors.Errorf(xerrors.ErrDuplicateSymbol, "instrument %s appears more than once", inst.Symbol).
				WithContext("symbol", inst.Symbol)
		}
		seen[inst.Symbol] = struct{}{}
	}

	if total := p.TotalWeight(); math.Abs(total-1) > WeightTolerance {
		return xerrors.Errorf(xerrors.ErrWeightSum, "portfolio weights must sum to 1.0, got %.3f", total)
	}

	for _, inst := range p.Instruments {
		if err := inst.Validate(); err != nil {
			return err
		}
	}
	return nil
}
