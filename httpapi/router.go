package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/wyfcoding/montecarlo/idgen"
	"github.com/wyfcoding/montecarlo/metrics"
	"github.com/wyfcoding/montecarlo/middleware"
	"github.com/wyfcoding/montecarlo/response"
	"github.com/wyfcoding/montecarlo/server"
)

const healthPath = "/healthz"

// RouterOptions 路由与中间件参数.
type RouterOptions struct {
	ServiceName   string
	Tracing       bool
	MetricsPath   string // 为空时不暴露指标端点
	MaxBodyBytes  int64
	SlowThreshold time.Duration
	RateLimit     float64 // /v1 路由每秒允许的请求数，<=0 表示不限流
	RateBurst     int
}

// NewRouter 组装中间件链并注册业务、健康检查与指标路由.
func NewRouter(h *Handler, m *metrics.Metrics, ids idgen.Generator, logger *slog.Logger, opts RouterOptions) *gin.Engine {
	mws := []gin.HandlerFunc{
		middleware.Recovery(logger),
		middleware.RequestID(ids),
	}
	if opts.Tracing {
		mws = append(mws, middleware.TracingMiddleware(opts.ServiceName))
	}
	mws = append(mws,
		middleware.Logger(logger, opts.SlowThreshold),
		middleware.HTTPMetricsMiddleware(m, middleware.MetricsOptions{SkipPaths: []string{healthPath, opts.MetricsPath}}),
		middleware.MaxBodyBytes(opts.MaxBodyBytes),
		middleware.HTTPErrorHandler(),
	)

	r := server.NewDefaultGinEngine(mws...)
	r.GET(healthPath, func(c *gin.Context) {
		response.SuccessWithRawData(c, gin.H{"status": "ok"})
	})
	if m != nil && opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(m.Handler()))
	}
	r.NoRoute(func(c *gin.Context) {
		response.ErrorWithStatus(c, http.StatusNotFound, "not found", c.Request.URL.Path)
	})

	h.Register(r, middleware.RateLimit(rate.Limit(opts.RateLimit), opts.RateBurst, logger))
	return r
}
