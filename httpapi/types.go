package httpapi

import (
	"encoding/json"

	"github.com/wyfcoding/montecarlo/algorithm/finance"
	"github.com/wyfcoding/montecarlo/config"
)

// ResultOptions 控制响应中是否附带路径以及抽样条数.
type ResultOptions struct {
	IncludePaths bool `json:"include_paths"`
	SamplePaths  int  `json:"sample_paths" binding:"gte=0"`
}

// SimulationRequest 单标的模拟请求体: 扁平的 SimConfig 字段，外加可选的历史收益率与输出选项.
type SimulationRequest struct {
	Config            config.SimConfig `json:"config"`
	HistoricalReturns []float64        `json:"historical_returns,omitempty"`
	ResultOptions
}

// UnmarshalJSON 同一份请求体分别解码为 SimConfig 与附加字段.
func (r *SimulationRequest) UnmarshalJSON(data []byte) error {
	var extra struct {
		HistoricalReturns []float64 `json:"historical_returns"`
		ResultOptions
	}
	if err := json.Unmarshal(data, &r.Config); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	r.HistoricalReturns = extra.HistoricalReturns
	r.ResultOptions = extra.ResultOptions
	return nil
}

// PortfolioSimulationRequest 组合模拟请求体，historical_returns 以符号为键.
type PortfolioSimulationRequest struct {
	Config            config.SimConfig     `json:"config"`
	HistoricalReturns map[string][]float64 `json:"historical_returns,omitempty"`
	ResultOptions
}

// UnmarshalJSON 同一份请求体分别解码为 SimConfig 与附加字段.
func (r *PortfolioSimulationRequest) UnmarshalJSON(data []byte) error {
	var extra struct {
		HistoricalReturns map[string][]float64 `json:"historical_returns"`
		ResultOptions
	}
	if err := json.Unmarshal(data, &r.Config); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	r.HistoricalReturns = extra.HistoricalReturns
	r.ResultOptions = extra.ResultOptions
	return nil
}

// SimulationResponse 单标的模拟响应.
type SimulationResponse struct {
	RunID          string            `json:"run_id"`
	Cached         bool              `json:"cached"`
	Stats          *finance.SimStats `json:"stats"`
	Paths          [][]float64       `json:"paths,omitempty"`
	TerminalPrices []float64         `json:"terminal_prices,omitempty"`
}

// PortfolioSimulationResponse 组合模拟响应.
type PortfolioSimulationResponse struct {
	RunID      string                  `json:"run_id"`
	Cached     bool                    `json:"cached"`
	Stats      *finance.PortfolioStats `json:"stats"`
	Paths      map[string][][]float64  `json:"paths,omitempty"`
	ValuePaths [][]float64             `json:"value_paths,omitempty"`
}

// EstimateRequest 参数估计请求. 提供 prices 时先转换为对数收益率，否则使用 log_returns.
type EstimateRequest struct {
	LogReturns []float64 `json:"log_returns"`
	Prices     []float64 `json:"prices"`
}

// EstimateResponse 估计出的每步漂移与波动率.
type EstimateResponse struct {
	Mu           float64 `json:"mu"`
	Sigma        float64 `json:"sigma"`
	Observations int     `json:"observations"`
}
