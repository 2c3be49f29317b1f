// Package metrics 封装基于 Prometheus 的指标注册表及服务、模拟引擎的标准指标.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 内部持有独立的 Prometheus 注册表.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec   // 维度: method, path, status
	HTTPRequestDuration *prometheus.HistogramVec // 维度: method, path
	HTTPInFlight        prometheus.Gauge

	SimulationRunsTotal      *prometheus.CounterVec   // 维度: mode, model, status
	SimulationDuration       *prometheus.HistogramVec // 维度: mode
	SimulationPathsGenerated *prometheus.CounterVec   // 维度: model

	CacheRequestsTotal *prometheus.CounterVec // 维度: result (hit, miss)

	BuildInfo *prometheus.GaugeVec
}

// NewMetrics 初始化指标采集器，自动注册 Go 运行时与进程指标.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "http_server_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_server_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	m.HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_server_requests_in_flight",
		Help: "Number of HTTP requests currently being served",
	})
	reg.MustRegister(m.HTTPInFlight)

	m.SimulationRunsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_runs_total",
		Help: "Total number of simulation runs",
	}, []string{"mode", "model", "status"})

	m.SimulationDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_duration_seconds",
		Help:    "Simulation wall-clock duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"mode"})

	m.SimulationPathsGenerated = m.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_paths_generated_total",
		Help: "Total number of price paths generated",
	}, []string{"model"})

	m.CacheRequestsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Result cache lookups by outcome",
	}, []string{"result"})

	return m
}

// NewCounterVec 创建并注册一个新的计数器指标.
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标.
func (m *Metrics) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标.
func (m *Metrics) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// Registry 返回内部注册表，测试中用于采集指标.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回用于暴露指标的 HTTP 处理器.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSimulation 记录一次模拟运行的结果、耗时与生成路径数.
// 失败的运行不计入路径数.
func (m *Metrics) ObserveSimulation(mode, model string, err error, seconds float64, paths int) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SimulationRunsTotal.WithLabelValues(mode, model, status).Inc()
	m.SimulationDuration.WithLabelValues(mode).Observe(seconds)
	if err == nil && paths > 0 {
		m.SimulationPathsGenerated.WithLabelValues(model).Add(float64(paths))
	}
}
