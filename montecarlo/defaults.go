package montecarlo

import (
	"github.com/wyfcoding/montecarlo/algorithm/sim"
	"github.com/wyfcoding/montecarlo/xerrors"
)

// 跳跃扩散与 GARCH 的默认参数.
const (
	DefaultJumpLambda = 2.0
	DefaultJumpMu     = -0.02
	DefaultJumpSigma  = 0.05

	DefaultGARCHOmega = 1e-5
	DefaultGARCHAlpha = 0.1
	DefaultGARCHBeta  = 0.85
)

// DefaultModelSpec 由模型名与估计出的 mu、sigma 构造带默认参数的模型.
// GARCH 与 Bootstrap 不使用 mu、sigma.
func DefaultModelSpec(kind string, mu, sigma float64) (sim.ModelSpec, error) {
	k, err := sim.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	switch k {
	case sim.KindGBM:
		return sim.GBM{Mu: mu, Sigma: sigma}, nil
	case sim.KindBootstrap:
		return sim.Bootstrap{}, nil
	case sim.KindJumpDiffusion:
		return sim.JumpDiffusion{
			Mu:     mu,
			Sigma:  sigma,
			Lambda: DefaultJumpLambda,
			MuJ:    DefaultJumpMu,
			SigmaJ: DefaultJumpSigma,
		}, nil
	case sim.KindGARCH:
		return sim.GARCH{Omega: DefaultGARCHOmega, Alpha: DefaultGARCHAlpha, Beta: DefaultGARCHBeta}, nil
	}
	return nil, xerrors.Errorf(xerrors.ErrUnknownModel, "unknown model type: %q", kind)
}
