package config

import (
	"encoding/json"
	"os"

	"github.com/wyfcoding/montecarlo/algorithm/sim"
	"github.com/wyfcoding/montecarlo/montecarlo"
	"github.com/wyfcoding/montecarlo/xerrors"
)

// 模拟配置版本. 1 为旧的单标的格式，2 为组合格式.
const (
	SimConfigV1 = 1
	SimConfigV2 = 2
)

// GBMParams 旧格式中的 GBM 参数.
type GBMParams struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// JumpDiffusionParams 旧格式中的跳跃扩散参数.
type JumpDiffusionParams struct {
	Mu     float64 `json:"mu"`
	Sigma  float64 `json:"sigma"`
	Lambda float64 `json:"lambda"`
	MuJ    float64 `json:"mu_j"`
	SigmaJ float64 `json:"sigma_j"`
}

// GARCHParams 旧格式中的 GARCH 参数.
type GARCHParams struct {
	Omega float64 `json:"omega"`
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// UnmarshalJSON 要求 mu 与 sigma 均出现.
func (p *GBMParams) UnmarshalJSON(data []byte) error {
	if err := sim.RequireParams(sim.KindGBM, data); err != nil {
		return err
	}
	type plain GBMParams
	return json.Unmarshal(data, (*plain)(p))
}

// UnmarshalJSON 要求五个跳跃扩散参数均出现.
func (p *JumpDiffusionParams) UnmarshalJSON(data []byte) error {
	if err := sim.RequireParams(sim.KindJumpDiffusion, data); err != nil {
		return err
	}
	type plain JumpDiffusionParams
	return json.Unmarshal(data, (*plain)(p))
}

// UnmarshalJSON 要求 omega、alpha 与 beta 均出现.
func (p *GARCHParams) UnmarshalJSON(data []byte) error {
	if err := sim.RequireParams(sim.KindGARCH, data); err != nil {
		return err
	}
	type plain GARCHParams
	return json.Unmarshal(data, (*plain)(p))
}

// SimConfig 持久化的模拟任务描述. 设置了 Portfolio 时为组合模拟，否则使用旧的单标的字段.
type SimConfig struct {
	Version       int     `json:"version"`
	Horizon       int     `json:"horizon"`
	NumPaths      int     `json:"num_paths"`
	Seed          uint64  `json:"seed"`
	UseAntithetic bool    `json:"use_antithetic"`
	Dt            float64 `json:"dt"`

	Portfolio *montecarlo.Portfolio `json:"portfolio,omitempty"`

	InitialPrice        *float64             `json:"initial_price,omitempty"`
	ModelType           *string              `json:"model_type,omitempty"`
	GBMParams           *GBMParams           `json:"gbm_params,omitempty"`
	JumpDiffusionParams *JumpDiffusionParams `json:"jump_diffusion_params,omitempty"`
	GARCHParams         *GARCHParams         `json:"garch_params,omitempty"`
}

// UnmarshalJSON 缺少 version 字段时视为 2.
func (c *SimConfig) UnmarshalJSON(data []byte) error {
	type plain SimConfig
	p := plain{Version: SimConfigV2}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = SimConfig(p)
	return nil
}

// NewPortfolioConfig 创建组合模拟配置，dt 为 1.
func NewPortfolioConfig(horizon, numPaths int, seed uint64, antithetic bool, p *montecarlo.Portfolio) *SimConfig {
	return &SimConfig{
		Version:       SimConfigV2,
		Horizon:       horizon,
		NumPaths:      numPaths,
		Seed:          seed,
		UseAntithetic: antithetic,
		Dt:            1,
		Portfolio:     p,
	}
}

// NewSingleConfig 创建旧格式的单标的模拟配置，dt 为 1.
func NewSingleConfig(initialPrice float64, horizon, numPaths int, seed uint64, antithetic bool, model sim.ModelSpec) (*SimConfig, error) {
	if model == nil {
		return nil, xerrors.Errorf(xerrors.ErrMissingModelParams, "model spec is nil")
	}
	kind := string(model.Kind())
	c := &SimConfig{
		Version:       SimConfigV1,
		Horizon:       horizon,
		NumPaths:      numPaths,
		Seed:          seed,
		UseAntithetic: antithetic,
		Dt:            1,
		InitialPrice:  &initialPrice,
		ModelType:     &kind,
	}
	switch m := model.(type) {
	case sim.GBM:
		c.GBMParams = &GBMParams{Mu: m.Mu, Sigma: m.Sigma}
	case sim.Bootstrap:
	case sim.JumpDiffusion:
		c.JumpDiffusionParams = &JumpDiffusionParams{Mu: m.Mu, Sigma: m.Sigma, Lambda: m.Lambda, MuJ: m.MuJ, SigmaJ: m.SigmaJ}
	case sim.GARCH:
		c.GARCHParams = &GARCHParams{Omega: m.Omega, Alpha: m.Alpha, Beta: m.Beta}
	default:
		return nil, xerrors.Errorf(xerrors.ErrUnknownModel, "unsupported model spec %T", model)
	}
	return c, nil
}

// IsPortfolio 是否为组合模拟配置.
func (c *SimConfig) IsPortfolio() bool {
	return c.Portfolio != nil
}

// Params 运行参数.
func (c *SimConfig) Params() montecarlo.SimParams {
	return montecarlo.SimParams{
		Horizon:    c.Horizon,
		NumPaths:   c.NumPaths,
		Dt:         c.Dt,
		Seed:       c.Seed,
		Antithetic: c.UseAntithetic,
	}
}

// ToModelSpec 由旧格式字段构造模型.
func (c *SimConfig) ToModelSpec() (sim.ModelSpec, error) {
	if c.ModelType == nil {
		return nil, xerrors.Errorf(xerrors.ErrMissingModelParams, "model type not specified")
	}
	kind, err := sim.ParseKind(*c.ModelType)
	if err != nil {
		return nil, err
	}
	switch kind {
	case sim.KindGBM:
		if c.GBMParams == nil {
			return nil, xerrors.Errorf(xerrors.ErrMissingModelParams, "GBM parameters not found")
		}
		return sim.GBM{Mu: c.GBMParams.Mu, Sigma: c.GBMParams.Sigma}, nil
	case sim.KindBootstrap:
		return sim.Bootstrap{}, nil
	case sim.KindJumpDiffusion:
		p := c.JumpDiffusionParams
		if p == nil {
			return nil, xerrors.Errorf(xerrors.ErrMissingModelParams, "JumpDiffusion parameters not found")
		}
		return sim.JumpDiffusion{Mu: p.Mu, Sigma: p.Sigma, Lambda: p.Lambda, MuJ: p.MuJ, SigmaJ: p.SigmaJ}, nil
	case sim.KindGARCH:
		p := c.GARCHParams
		if p == nil {
			return nil, xerrors.Errorf(xerrors.ErrMissingModelParams, "GARCH parameters not found")
		}
		return sim.GARCH{Omega: p.Omega, Alpha: p.Alpha, Beta: p.Beta}, nil
	}
	return nil, xerrors.Errorf(xerrors.ErrUnknownModel, "unknown model type: %q", *c.ModelType)
}

// Validate 校验版本、运行参数，以及组合或旧格式的单标的字段.
// 旧格式的 GARCH 额外要求 alpha+beta < 1.
func (c *SimConfig) Validate() error {
	if c.Version != SimConfigV1 && c.Version != SimConfigV2 {
		return xerrors.Errorf(xerrors.ErrUnsupportedVersion, "config version %d", c.Version)
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Portfolio != nil {
		return c.Portfolio.Validate()
	}

	if c.InitialPrice != nil && *c.InitialPrice <= 0 {
		return xerrors.Errorf(xerrors.ErrInvalidPrice, "initial price must be positive, got %v", *c.InitialPrice)
	}
	if c.ModelType == nil {
		return nil
	}
	spec, err := c.ToModelSpec()
	if err != nil {
		return err
	}
	if err := sim.ValidateModel(spec); err != nil {
		return err
	}
	if g, ok := spec.(sim.GARCH); ok && g.Alpha+g.Beta >= 1 {
		return xerrors.Errorf(xerrors.ErrInvalidModelParams,
			"GARCH stationarity condition failed: alpha + beta must be < 1, got %v", g.Alpha+g.Beta)
	}
	return nil
}

// SingleRequest 将旧格式配置转换为单标的模拟请求.
func (c *SimConfig) SingleRequest(history []float64) (montecarlo.SingleRequest, error) {
	if c.InitialPrice == nil {
		return montecarlo.SingleRequest{}, xerrors.Errorf(xerrors.ErrInvalidPrice, "initial price not specified")
	}
	spec, err := c.ToModelSpec()
	if err != nil {
		return montecarlo.SingleRequest{}, err
	}
	return montecarlo.SingleRequest{
		SimParams:    c.Params(),
		InitialPrice: *c.InitialPrice,
		Model:        spec,
		History:      history,
	}, nil
}

// PortfolioRequest 将组合配置转换为组合模拟请求.
func (c *SimConfig) PortfolioRequest(history montecarlo.HistoricalReturns) (montecarlo.PortfolioRequest, error) {
	if c.Portfolio == nil {
		return montecarlo.PortfolioRequest{}, xerrors.Errorf(xerrors.ErrEmptyPortfolio, "config has no portfolio")
	}
	return montecarlo.PortfolioRequest{
		SimParams: c.Params(),
		Portfolio: c.Portfolio,
		History:   history,
	}, nil
}

// SaveSimConfig 以缩进 JSON 写入文件.
func SaveSimConfig(c *SimConfig, path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return xerrors.WrapInternal(err, "encode sim config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return xerrors.WrapInternal(err, "write sim config")
	}
	return nil
}

// LoadSimConfig 从 JSON 文件读取模拟配置，不做校验.
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.WrapInternal(err, "read sim config")
	}
	var c SimConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ErrInvalidArg, "decode sim config")
	}
	return &c, nil
}

// ExampleSimConfig 返回示例配置: 组合格式或旧的单标的 GBM 格式.
func ExampleSimConfig(portfolio bool) *SimConfig {
	if !portfolio {
		c, _ := NewSingleConfig(100, 252, 10000, 42, true, sim.GBM{Mu: 0.0005, Sigma: 0.02})
		return c
	}
	stopLoss, target := 140.0, 180.0
	p := montecarlo.NewPortfolio(100000)
	_ = p.AddInstrument(montecarlo.InstrumentConfig{
		Symbol: "AAPL", InitialPrice: 150, Weight: 0.5,
		StopLoss: &stopLoss, Target: &target,
		Model: sim.GBM{Mu: 0.0005, Sigma: 0.02},
	})
	_ = p.AddInstrument(montecarlo.InstrumentConfig{
		Symbol: "MSFT", InitialPrice: 300, Weight: 0.3,
		Model: sim.JumpDiffusion{Mu: 0.0004, Sigma: 0.018, Lambda: 2.0 / 252, MuJ: -0.02, SigmaJ: 0.05},
	})
	_ = p.AddInstrument(montecarlo.InstrumentConfig{
		Symbol: "SPY", InitialPrice: 450, Weight: 0.2,
		Model: sim.GARCH{Omega: 1e-5, Alpha: 0.1, Beta: 0.85},
	})
	return NewPortfolioConfig(252, 10000, 42, true, p)
}
