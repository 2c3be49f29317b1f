package sim

import (
	"math"

	"github.com/wyfcoding/montecarlo/xerrors"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// minVariance GARCH 条件方差下限，防止数值塌缩.
const minVariance = 1e-6

// nonStationaryDivisor alpha+beta >= 1 时的回退方差分母.
const nonStationaryDivisor = 0.1

// PathParams 单条路径生成的公共参数.
type PathParams struct {
	InitialPrice float64
	Horizon      int
	Dt           float64
	Antithetic   bool
	Seed         uint64
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newPath(p PathParams) []float64 {
	path := make([]float64, p.Horizon+1)
	path[0] = p.InitialPrice
	return path
}

// GBMPath 使用精确对数正态离散化生成一条几何布朗运动路径.
func GBMPath(p PathParams, m GBM) []float64 {
	rng := newRand(p.Seed)
	path := newPath(p)

	// 预计算常量.
	driftTerm := (m.Mu - 0.5*m.Sigma*m.Sigma) * p.Dt
	volTerm := m.Sigma * math.Sqrt(p.Dt)

	for i := 1; i <= p.Horizon; i++ {
		z := rng.NormFloat64()
		if p.Antithetic {
			z = -z
		}
		path[i] = path[i-1] * math.Exp(driftTerm+volTerm*z)
	}
	return path
}

// BootstrapPath 从历史对数收益率中有放回地均匀抽样生成路径.
// 历史样本为空时返回恒为初始价格的平坦路径.
func BootstrapPath(p PathParams, history []float64) []float64 {
	path := newPath(p)
	if len(history) == 0 {
		for i := range path {
			path[i] = p.InitialPrice
		}
		return path
	}

	rng := newRand(p.Seed)
	for i := 1; i <= p.Horizon; i++ {
		r := history[rng.Intn(len(history))]
		path[i] = path[i-1] * math.Exp(r)
	}
	return path
}

// JumpDiffusionPath 在 GBM 增量上叠加复合泊松跳跃.
// 对偶标记只作用于扩散部分的正态抽样，不影响跳跃次数与跳跃幅度.
func JumpDiffusionPath(p PathParams, m JumpDiffusion) []float64 {
	rng := newRand(p.Seed)
	path := newPath(p)

	driftTerm := (m.Mu - 0.5*m.Sigma*m.Sigma) * p.Dt
	volTerm := m.Sigma * math.Sqrt(p.Dt)

	intensity := m.Lambda * p.Dt
	poisson := distuv.Poisson{Lambda: intensity, Src: rng}
	jumpSize := distuv.Normal{Mu: m.MuJ, Sigma: m.SigmaJ, Src: rng}

	for i := 1; i <= p.Horizon; i++ {
		z := rng.NormFloat64()
		if p.Antithetic {
			z = -z
		}
		increment := driftTerm + volTerm*z

		var jumps float64
		if intensity > 0 {
			n := int(poisson.Rand())
			for range n {
				jumps += jumpSize.Rand()
			}
		}

		path[i] = path[i-1] * math.Exp(increment+jumps)
	}
	return path
}

// GARCHPath 生成 GARCH(1,1) 条件方差驱动的路径.
// 方差更新使用上一步的收益率，即方差滞后收益率一步.
func GARCHPath(p PathParams, m GARCH) []float64 {
	rng := newRand(p.Seed)
	path := newPath(p)

	variance := m.Omega / nonStationaryDivisor
	if m.Alpha+m.Beta < 1 {
		variance = m.Omega / (1 - m.Alpha - m.Beta)
	}

	sqrtDt := math.Sqrt(p.Dt)
	var prevReturn float64
	for i := 1; i <= p.Horizon; i++ {
		eps := rng.NormFloat64()
		if p.Antithetic {
			eps = -eps
		}

		r := math.Sqrt(variance) * eps * sqrtDt
		path[i] = path[i-1] * math.Exp(r)

		variance = math.Max(m.Omega+m.Alpha*prevReturn*prevReturn+m.Beta*variance, minVariance)
		prevReturn = r
	}
	return path
}

// pathFunc 绑定了模型参数的单路径生成函数.
type pathFunc func(p PathParams) []float64

// resolve 将模型分派为具体的生成函数，是模型联合类型的唯一分派点.
func resolve(spec ModelSpec, history []float64) (pathFunc, error) {
	if err := ValidateModel(spec); err != nil {
		return nil, err
	}
	switch m := spec.(type) {
	case GBM:
		return func(p PathParams) []float64 { return GBMPath(p, m) }, nil
	case Bootstrap:
		return func(p PathParams) []float64 { return BootstrapPath(p, history) }, nil
	case JumpDiffusion:
		return func(p PathParams) []float64 { return JumpDiffusionPath(p, m) }, nil
	case GARCH:
		return func(p PathParams) []float64 { return GARCHPath(p, m) }, nil
	default:
		return nil, xerrors.Errorf(xerrors.ErrUnknownModel, "unsupported model spec %T", spec)
	}
}

// GeneratePath 按模型生成单条路径.
func GeneratePath(spec ModelSpec, p PathParams, history []float64) ([]float64, error) {
	fn, err := resolve(spec, history)
	if err != nil {
		return nil, err
	}
	return fn(p), nil
}
