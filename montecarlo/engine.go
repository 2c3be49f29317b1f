package montecarlo

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/montecarlo/algorithm/finance"
	"github.com/wyfcoding/montecarlo/algorithm/sim"
	"github.com/wyfcoding/montecarlo/logging"
	"github.com/wyfcoding/montecarlo/metrics"
	"github.com/wyfcoding/montecarlo/tracing"
	"github.com/wyfcoding/montecarlo/xerrors"
)

// 指标与日志中的运行模式.
const (
	ModeSingle    = "single"
	ModePortfolio = "portfolio"
)

// Engine 模拟编排器. 对调用方同步，内部按路径与标的并行.
// ctx 只用于追踪与日志关联，不会中断已开始的模拟.
type Engine struct {
	logger      *logging.Logger
	metrics     *metrics.Metrics
	concurrency int
	maxPaths    int
	maxHorizon  int
}

// Option 配置 Engine.
type Option func(*Engine)

// WithLogger 指定日志记录器.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics 开启模拟指标采集.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithConcurrency 限制路径生成的最大并发数，<= 0 表示 GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithLimits 限制单次请求的路径数与步数，0 表示不限制.
func WithLimits(maxPaths, maxHorizon int) Option {
	return func(e *Engine) {
		e.maxPaths = maxPaths
		e.maxHorizon = maxHorizon
	}
}

// NewEngine 创建模拟编排器.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	return e
}

func (e *Engine) workers() int {
	if e.concurrency > 0 {
		return e.concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// splitWorkers 把 total 个工作协程分给 parts 个并行任务，outer*inner 不超过 total (total >= 1).
func splitWorkers(total, parts int) (outer, inner int) {
	outer = min(total, max(parts, 1))
	return outer, max(total/outer, 1)
}

func (e *Engine) checkLimits(p SimParams, instruments int) error {
	if e.maxPaths > 0 && p.NumPaths*instruments > e.maxPaths {
		return xerrors.Errorf(xerrors.ErrLimitPaths, "%d paths x %d instruments exceeds limit %d", p.NumPaths, instruments, e.maxPaths)
	}
	if e.maxHorizon > 0 && p.Horizon > e.maxHorizon {
		return xerrors.Errorf(xerrors.ErrLimitPaths, "horizon %d exceeds limit %d", p.Horizon, e.maxHorizon)
	}
	return nil
}

func modelName(spec sim.ModelSpec) string {
	if spec == nil {
		return "unknown"
	}
	return string(spec.Kind())
}

// Simulate 生成单标的路径集合并计算统计. 第 i 条路径的种子为 Seed+i.
func (e *Engine) Simulate(ctx context.Context, req SingleRequest) (res *SingleResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "montecarlo.Simulate")
	defer span.End()

	model := modelName(req.Model)
	start := time.Now()
	defer func() {
		e.metrics.ObserveSimulation(ModeSingle, model, err, time.Since(start).Seconds(), req.NumPaths)
		tracing.SetError(ctx, err)
	}()

	if err = req.Validate(); err == nil {
		err = e.checkLimits(req.SimParams, 1)
	}
	if err != nil {
		e.logger.WarnContext(ctx, "simulation rejected", "mode", ModeSingle, "model", model, "error", err)
		return nil, err
	}

	tracing.AddTag(ctx, "sim.model", model)
	tracing.AddTag(ctx, "sim.paths", req.NumPaths)
	tracing.AddTag(ctx, "sim.horizon", req.Horizon)
	e.logger.InfoContext(ctx, "simulation started", "mode", ModeSingle, "model", model,
		"paths", req.NumPaths, "horizon", req.Horizon, "seed", req.Seed)
	done := e.logger.LogDuration(ctx, "simulation", "mode", ModeSingle, "model", model)

	gen := sim.Generator{
		Model:        req.Model,
		InitialPrice: req.InitialPrice,
		Horizon:      req.Horizon,
		Dt:           req.Dt,
		Antithetic:   req.Antithetic,
		History:      req.History,
		BaseSeed:     req.Seed,
		Concurrency:  e.workers(),
	}
	paths, err := gen.SimulateMultiplePaths(req.NumPaths)
	if err != nil {
		return nil, err
	}

	stats, err := finance.CalculateStatistics(model, paths, req.Horizon, req.InitialPrice)
	if err != nil {
		return nil, err
	}

	done()
	return &SingleResult{
		Stats:          stats,
		Paths:          paths,
		TerminalPrices: finance.TerminalPrices(paths),
	}, nil
}

// SimulatePortfolio 并行生成每个标的的路径集合，汇合后计算组合价值路径与统计.
// 标的的第 i 条路径种子为 sim.InstrumentSeed(Seed, i, symbol)，各标的相互独立.
func (e *Engine) SimulatePortfolio(ctx context.Context, req PortfolioRequest) (res *PortfolioResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "montecarlo.SimulatePortfolio")
	defer span.End()

	start := time.Now()
	defer func() {
		paths := 0
		if req.Portfolio != nil {
			paths = req.NumPaths * len(req.Portfolio.Instruments)
		}
		e.metrics.ObserveSimulation(ModePortfolio, ModePortfolio, err, time.Since(start).Seconds(), paths)
		tracing.SetError(ctx, err)
	}()

	if err = req.Validate(); err == nil {
		err = e.checkLimits(req.SimParams, len(req.Portfolio.Instruments))
	}
	if err != nil {
		e.logger.WarnContext(ctx, "portfolio simulation rejected", "mode", ModePortfolio, "error", err)
		return nil, err
	}

	p := req.Portfolio
	tracing.AddTag(ctx, "sim.instruments", len(p.Instruments))
	tracing.AddTag(ctx, "sim.paths", req.NumPaths)
	e.logger.InfoContext(ctx, "portfolio simulation started", "mode", ModePortfolio,
		"instruments", p.Symbols(), "paths", req.NumPaths, "horizon", req.Horizon, "seed", req.Seed)
	done := e.logger.LogDuration(ctx, "portfolio simulation", "mode", ModePortfolio, "instruments", len(p.Instruments))

	ensembles, err := e.generateEnsembles(ctx, req)
	if err != nil {
		return nil, err
	}

	holdings := make([]finance.Holding, len(p.Instruments))
	instruments := make(map[string]finance.InstrumentStats, len(p.Instruments))
	byName := make(map[string][][]float64, len(p.Instruments))
	for k, inst := range p.Instruments {
		ens := ensembles[k]
		s, statsErr := finance.CalculateStatistics(modelName(inst.Model), ens, req.Horizon, inst.InitialPrice)
		if statsErr != nil {
			return nil, statsErr
		}
		hits, hitErr := finance.CalculateHitStatistics(ens, inst.StopLoss, inst.Target)
		if hitErr != nil {
			return nil, hitErr
		}
		instruments[inst.Symbol] = finance.InstrumentStats{Symbol: inst.Symbol, SimStats: *s, HitStatistics: hits}
		holdings[k] = inst.holding()
		byName[inst.Symbol] = ens
	}

	values, err := finance.PortfolioValuePaths(holdings, p.TotalCapital, ensembles)
	if err != nil {
		return nil, err
	}
	stats, err := finance.CalculatePortfolioLevelStats(finance.PortfolioReturns(values, p.TotalCapital), values, instruments)
	if err != nil {
		return nil, err
	}

	done()
	return &PortfolioResult{Stats: stats, Paths: byName, ValuePaths: values}, nil
}

// generateEnsembles 每个标的一个任务，各自只写入 ensembles[k]. 标的间与标的内的并发共享 workers() 预算.
func (e *Engine) generateEnsembles(ctx context.Context, req PortfolioRequest) ([][][]float64, error) {
	instruments := req.Portfolio.Instruments
	ensembles := make([][][]float64, len(instruments))

	outer, inner := splitWorkers(e.workers(), len(instruments))
	g := new(errgroup.Group)
	g.SetLimit(outer)
	for k, inst := range instruments {
		g.Go(func() error {
			_, span := tracing.StartSpan(ctx, "montecarlo.instrument")
			defer span.End()

			gen := sim.Generator{
				Model:        inst.Model,
				InitialPrice: inst.InitialPrice,
				Horizon:      req.Horizon,
				Dt:           req.Dt,
				Antithetic:   req.Antithetic,
				History:      req.History.Returns(inst.Symbol),
				Seed: func(i int) uint64 {
					return sim.InstrumentSeed(req.Seed, i, inst.Symbol)
				},
				Concurrency: inner,
			}
			paths, err := gen.SimulateMultiplePaths(req.NumPaths)
			if err != nil {
				return err
			}
			ensembles[k] = paths
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ensembles, nil
}
