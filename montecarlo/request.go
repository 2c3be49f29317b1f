package montecarlo

import (
	"math"

	"github.com/wyfcoding/montecarlo/algorithm/finance"
	"github.com/wyfcoding/montecarlo/algorithm/sim"
	"github.com/wyfcoding/montecarlo/xerrors"
)

// SimParams 单标的与组合模拟共用的运行参数.
type SimParams struct {
	Horizon    int     `json:"horizon"`
	NumPaths   int     `json:"num_paths"`
	Dt         float64 `json:"dt"`
	Seed       uint64  `json:"seed"`
	Antithetic bool    `json:"use_antithetic"`
}

// Validate 校验步数、路径数与时间步长.
func (p SimParams) Validate() error {
	if p.Horizon <= 0 {
		return xerrors.Errorf(xerrors.ErrZeroHorizon, "horizon must be greater than 0, got %d", p.Horizon)
	}
	if p.NumPaths <= 0 {
		return xerrors.Errorf(xerrors.ErrZeroPaths, "number of paths must be greater than 0, got %d", p.NumPaths)
	}
	if math.IsNaN(p.Dt) || math.IsInf(p.Dt, 0) || p.Dt <= 0 {
		return xerrors.Errorf(xerrors.ErrInvalidStep, "dt must be positive, got %v", p.Dt)
	}
	return nil
}

// SingleRequest 单标的模拟请求. History 为 Bootstrap 使用的对数收益率序列.
type SingleRequest struct {
	SimParams
	InitialPrice float64
	Model        sim.ModelSpec
	History      []float64
}

// Validate 校验运行参数、初始价格与模型参数.
func (r SingleRequest) Validate() error {
	if err := r.SimParams.Validate(); err != nil {
		return err
	}
	if err := validatePrice(r.InitialPrice); err != nil {
		return err
	}
	return sim.ValidateModel(r.Model)
}

// SingleResult 单标的模拟结果: 统计、完整路径集合与末端价格.
type SingleResult struct {
	Stats          *finance.SimStats `json:"stats"`
	Paths          [][]float64       `json:"paths,omitempty"`
	TerminalPrices []float64         `json:"terminal_prices,omitempty"`
}

// PortfolioRequest 组合模拟请求.
type PortfolioRequest struct {
	SimParams
	Portfolio *Portfolio
	History   HistoricalReturns
}

// Validate 先校验组合，再校验运行参数.
func (r PortfolioRequest) Validate() error {
	if err := r.Portfolio.Validate(); err != nil {
		return err
	}
	return r.SimParams.Validate()
}

// PortfolioResult 组合模拟结果. Paths 以符号为键保存各标的路径集合，ValuePaths 为组合价值路径.
type PortfolioResult struct {
	Stats      *finance.PortfolioStats `json:"stats"`
	Paths      map[string][][]float64  `json:"paths,omitempty"`
	ValuePaths [][]float64             `json:"value_paths,omitempty"`
}
