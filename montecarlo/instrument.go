// Package montecarlo 编排单标的与组合的蒙特卡洛价格路径模拟，并汇总风险统计.
package montecarlo

import (
	"encoding/json"
	"math"

	"github.com/wyfcoding/montecarlo/algorithm/finance"
	"github.com/wyfcoding/montecarlo/algorithm/sim"
	"github.com/wyfcoding/montecarlo/xerrors"
)

// InstrumentConfig 组合中的一个标的，模拟期间不可修改.
type InstrumentConfig struct {
	Symbol       string
	InitialPrice float64
	Weight       float64
	StopLoss     *float64
	Target       *float64
	Model        sim.ModelSpec
}

type instrumentJSON struct {
	Symbol       string        `json:"symbol"`
	InitialPrice float64       `json:"initial_price"`
	Weight       float64       `json:"weight"`
	StopLoss     *float64      `json:"stop_loss,omitempty"`
	Target       *float64      `json:"target,omitempty"`
	Model        sim.ModelJSON `json:"model"`
}

// MarshalJSON 实现 json.Marshaler.
func (c InstrumentConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(instrumentJSON{
		Symbol:       c.Symbol,
		InitialPrice: c.InitialPrice,
		Weight:       c.Weight,
		StopLoss:     c.StopLoss,
		Target:       c.Target,
		Model:        sim.ModelJSON{Spec: c.Model},
	})
}

// UnmarshalJSON 实现 json.Unmarshaler. 缺少 model 字段时 Model 为 nil，由 Validate 报告.
func (c *InstrumentConfig) UnmarshalJSON(data []byte) error {
	var raw instrumentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = InstrumentConfig{
		Symbol:       raw.Symbol,
		InitialPrice: raw.InitialPrice,
		Weight:       raw.Weight,
		StopLoss:     raw.StopLoss,
		Target:       raw.Target,
		Model:        raw.Model.Spec,
	}
	return nil
}

// Validate 校验单个标的: 价格、权重、止损/目标价相对初始价的位置以及模型参数.
func (c InstrumentConfig) Validate() error {
	if c.Symbol == "" {
		return xerrors.InvalidArg("instrument symbol must not be empty")
	}
	if err := validatePrice(c.InitialPrice); err != nil {
		return err.WithContext("symbol", c.Symbol)
	}
	if math.IsNaN(c.Weight) || c.Weight <= 0 || c.Weight > 1 {
		return xerrors.Errorf(xerrors.ErrInvalidWeight, "instrument %s weight must be in (0, 1], got %v", c.Symbol, c.Weight).
			WithContext("symbol", c.Symbol)
	}
	if c.StopLoss != nil && !(*c.StopLoss < c.InitialPrice) {
		return xerrors.Errorf(xerrors.ErrStopLossAbovePrice, "instrument %s stop loss (%v) must be less than initial price (%v)",
			c.Symbol, *c.StopLoss, c.InitialPrice).WithContext("symbol", c.Symbol)
	}
	if c.Target != nil && !(*c.Target > c.InitialPrice) {
		return xerrors.Errorf(xerrors.ErrTargetBelowPrice, "instrument %s target (%v) must be greater than initial price (%v)",
			c.Symbol, *c.Target, c.InitialPrice).WithContext("symbol", c.Symbol)
	}
	return sim.ValidateModel(c.Model)
}

func (c InstrumentConfig) holding() finance.Holding {
	return finance.Holding{Symbol: c.Symbol, InitialPrice: c.InitialPrice, Weight: c.Weight}
}

func validatePrice(price float64) *xerrors.Error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return xerrors.Errorf(xerrors.ErrInvalidPrice, "initial price must be positive, got %v", price)
	}
	return nil
}
