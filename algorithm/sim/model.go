// Package sim 提供价格路径的随机过程模拟：几何布朗运动、历史自助抽样、跳跃扩散与 GARCH(1,1)。
package sim

import (
	"math"

	"github.com/wyfcoding/montecarlo/xerrors"
)

// ModelKind 模型标识.
type ModelKind string

const (
	KindGBM           ModelKind = "GBM"
	KindBootstrap     ModelKind = "Bootstrap"
	KindJumpDiffusion ModelKind = "JumpDiffusion"
	KindGARCH         ModelKind = "GARCH"
)

// ModelSpec 是封闭的模型联合类型，只能是 GBM、Bootstrap、JumpDiffusion 或 GARCH 之一.
// 新增模型时需要同步修改 resolve 与 JSON 编解码中的 switch.
type ModelSpec interface {
	Kind() ModelKind
	isModelSpec()
}

// GBM 几何布朗运动参数.
type GBM struct {
	Mu    float64 `json:"mu"`    // 漂移.
	Sigma float64 `json:"sigma"` // 波动.
}

// Bootstrap 历史对数收益率有放回抽样，无参数.
type Bootstrap struct{}

// JumpDiffusion Merton 跳跃扩散参数.
type JumpDiffusion struct {
	Mu     float64 `json:"mu"`
	Sigma  float64 `json:"sigma"`
	Lambda float64 `json:"lambda"`  // 单位时间内的平均跳跃次数.
	MuJ    float64 `json:"mu_j"`    // 对数跳跃幅度均值.
	SigmaJ float64 `json:"sigma_j"` // 对数跳跃幅度标准差.
}

// GARCH GARCH(1,1) 方差递推参数.
type GARCH struct {
	Omega float64 `json:"omega"`
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

func (GBM) Kind() ModelKind           { return KindGBM }
func (Bootstrap) Kind() ModelKind     { return KindBootstrap }
func (JumpDiffusion) Kind() ModelKind { return KindJumpDiffusion }
func (GARCH) Kind() ModelKind         { return KindGARCH }

func (GBM) isModelSpec()           {}
func (Bootstrap) isModelSpec()     {}
func (JumpDiffusion) isModelSpec() {}
func (GARCH) isModelSpec()         {}

// ParseKind 将字符串解析为模型标识.
func ParseKind(s string) (ModelKind, error) {
	switch k := ModelKind(s); k {
	case KindGBM, KindBootstrap, KindJumpDiffusion, KindGARCH:
		return k, nil
	default:
		return "", xerrors.Errorf(xerrors.ErrUnknownModel, "unknown model type: %q", s)
	}
}

// ValidateModel 校验模型参数的取值范围.
// 非平稳的 GARCH 参数 (alpha+beta >= 1) 不视为错误，生成器会使用回退方差.
func ValidateModel(spec ModelSpec) error {
	if spec == nil {
		return xerrors.Errorf(xerrors.ErrMissingModelParams, "model spec is nil")
	}
	switch m := spec.(type) {
	case GBM:
		if !finite(m.Mu, m.Sigma) || m.Sigma < 0 {
			return xerrors.Errorf(xerrors.ErrInvalidModelParams, "GBM sigma must be non-negative, got mu=%v sigma=%v", m.Mu, m.Sigma)
		}
	case Bootstrap:
	case JumpDiffusion:
		if !finite(m.Mu, m.Sigma, m.Lambda, m.MuJ, m.SigmaJ) {
			return xerrors.Errorf(xerrors.ErrInvalidModelParams, "JumpDiffusion parameters must be finite")
		}
		if m.Sigma < 0 || m.Lambda < 0 || m.SigmaJ < 0 {
			return xerrors.Errorf(xerrors.ErrInvalidModelParams,
				"JumpDiffusion sigma, lambda and sigma_j must be non-negative, got sigma=%v lambda=%v sigma_j=%v", m.Sigma, m.Lambda, m.SigmaJ)
		}
	case GARCH:
		if !finite(m.Omega, m.Alpha, m.Beta) || m.Omega <= 0 || m.Alpha < 0 || m.Beta < 0 {
			return xerrors.Errorf(xerrors.ErrInvalidModelParams,
				"GARCH requires omega > 0, alpha >= 0, beta >= 0, got omega=%v alpha=%v beta=%v", m.Omega, m.Alpha, m.Beta)
		}
	default:
		return xerrors.Errorf(xerrors.ErrUnknownModel, "unsupported model spec %T", spec)
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
