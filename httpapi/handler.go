// Package httpapi 以 HTTP/JSON 暴露模拟引擎: 单标的模拟、组合模拟与参数估计.
package httpapi

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/montecarlo/algorithm/finance"
	"github.com/wyfcoding/montecarlo/algorithm/sim"
	"github.com/wyfcoding/montecarlo/cache"
	"github.com/wyfcoding/montecarlo/idgen"
	"github.com/wyfcoding/montecarlo/logging"
	"github.com/wyfcoding/montecarlo/montecarlo"
	"github.com/wyfcoding/montecarlo/response"
	"github.com/wyfcoding/montecarlo/xerrors"
)

// Handler 模拟接口处理器.
type Handler struct {
	engine *montecarlo.Engine
	cache  *cache.BigCache
	ids    idgen.Generator
	logger *logging.Logger
}

// Option 配置 Handler.
type Option func(*Handler)

// WithCache 启用结果缓存. 模拟是确定性的，同一请求命中缓存即得到相同结果.
func WithCache(c *cache.BigCache) Option {
	return func(h *Handler) { h.cache = c }
}

// WithIDGenerator 设置 run_id 生成器.
func WithIDGenerator(g idgen.Generator) Option {
	return func(h *Handler) { h.ids = g }
}

// WithLogger 设置日志记录器.
func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// NewHandler 创建处理器.
func NewHandler(engine *montecarlo.Engine, opts ...Option) *Handler {
	h := &Handler{engine: engine}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logging.Default()
	}
	return h
}

// Register 在 r 上挂载 /v1 路由.
func (h *Handler) Register(r gin.IRouter, mws ...gin.HandlerFunc) {
	v1 := r.Group("/v1", mws...)
	v1.POST("/simulations", h.Simulate)
	v1.POST("/portfolio-simulations", h.SimulatePortfolio)
	v1.POST("/estimate", h.Estimate)
}

// Simulate 处理单标的模拟.
func (h *Handler) Simulate(c *gin.Context) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	if req.Config.IsPortfolio() {
		_ = c.Error(xerrors.InvalidArg("portfolio config must be posted to /v1/portfolio-simulations"))
		return
	}
	if err := req.Config.Validate(); err != nil {
		_ = c.Error(err)
		return
	}
	mreq, err := req.Config.SingleRequest(req.HistoricalReturns)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	var resp SimulationResponse
	key, hit := h.lookup(ctx, "single", req, &resp)
	if !hit {
		res, err := h.engine.Simulate(ctx, mreq)
		if err != nil {
			_ = c.Error(err)
			return
		}
		resp = SimulationResponse{Stats: res.Stats}
		if req.IncludePaths {
			resp.Paths = sim.SamplePaths(res.Paths, req.SamplePaths, mreq.Seed)
			resp.TerminalPrices = finance.TerminalPrices(resp.Paths)
		}
		h.store(ctx, key, resp)
	}

	resp.RunID = h.runID()
	resp.Cached = hit
	response.Success(c, resp)
}

// SimulatePortfolio 处理组合模拟.
func (h *Handler) SimulatePortfolio(c *gin.Context) {
	var req PortfolioSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}
	if !req.Config.IsPortfolio() {
		_ = c.Error(xerrors.Errorf(xerrors.ErrEmptyPortfolio, "request has no portfolio"))
		return
	}
	if err := req.Config.Validate(); err != nil {
		_ = c.Error(err)
		return
	}
	mreq, err := req.Config.PortfolioRequest(montecarlo.NewHistoricalReturns(req.HistoricalReturns))
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	var resp PortfolioSimulationResponse
	key, hit := h.lookup(ctx, "portfolio", req, &resp)
	if !hit {
		res, err := h.engine.SimulatePortfolio(ctx, mreq)
		if err != nil {
			_ = c.Error(err)
			return
		}
		resp = PortfolioSimulationResponse{Stats: res.Stats}
		if req.IncludePaths {
			// 同一种子与路径数下抽样下标一致，各标的与价值路径保持对应.
			resp.Paths = make(map[string][][]float64, len(res.Paths))
			for sym, paths := range res.Paths {
				resp.Paths[sym] = sim.SamplePaths(paths, req.SamplePaths, mreq.Seed)
			}
			resp.ValuePaths = sim.SamplePaths(res.ValuePaths, req.SamplePaths, mreq.Seed)
		}
		h.store(ctx, key, resp)
	}

	resp.RunID = h.runID()
	resp.Cached = hit
	response.Success(c, resp)
}

// Estimate 由价格或对数收益率估计 GBM 参数.
func (h *Handler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(badRequest(err))
		return
	}

	returns := req.LogReturns
	if len(req.Prices) > 0 {
		var err error
		if returns, err = finance.LogReturns(req.Prices); err != nil {
			_ = c.Error(err)
			return
		}
	}

	mu, sigma, err := finance.EstimateParameters(returns)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, EstimateResponse{Mu: mu, Sigma: sigma, Observations: len(returns)})
}

// lookup 计算缓存键并尝试读取. 缓存未启用或键计算失败时返回空键.
func (h *Handler) lookup(ctx context.Context, prefix string, req, out any) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	key, err := cache.Key(prefix, req)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to build cache key", "error", err)
		return "", false
	}
	err = h.cache.Get(ctx, key, out)
	switch {
	case err == nil:
		return key, true
	case !errors.Is(err, cache.ErrMiss):
		h.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}
	return key, false
}

func (h *Handler) store(ctx context.Context, key string, v any) {
	if h.cache == nil || key == "" {
		return
	}
	if err := h.cache.Set(ctx, key, v); err != nil {
		h.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

func (h *Handler) runID() string {
	if h.ids == nil {
		return ""
	}
	return h.ids.GenerateString()
}

// badRequest 保留解码过程中产生的领域错误码，其余解码错误归为 InvalidArg.
func badRequest(err error) *xerrors.Error {
	if e, ok := xerrors.FromError(err); ok {
		return e
	}
	return xerrors.InvalidArg("invalid request body").WithDetail("%v", err)
}
