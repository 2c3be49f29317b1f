// Package bootstrap 加载服务配置并初始化日志、追踪等公共基础设施.
package bootstrap

import (
	"context"

	"github.com/wyfcoding/montecarlo/config"
	"github.com/wyfcoding/montecarlo/logging"
	"github.com/wyfcoding/montecarlo/tracing"
)

// Bootstrapper 处理通用基础设施的初始化.
type Bootstrapper struct {
	ServiceName string
	Version     string
	Logger      *logging.Logger
}

// New 创建引导器实例.
func New(serviceName, version string) *Bootstrapper {
	return &Bootstrapper{ServiceName: serviceName, Version: version}
}

// Initialize 加载配置文件到 cfg，并据 cfg.Log 初始化全局日志.
// configPath 为空时仅使用默认值与环境变量.
func (b *Bootstrapper) Initialize(configPath string, cfg *config.Config) error {
	if err := config.Load(configPath, cfg); err != nil {
		logging.NewLogger(b.ServiceName, "bootstrap").Error("failed to load config", "path", configPath, "error", err)
		return err
	}
	if cfg.Version == "" {
		cfg.Version = b.Version
	}

	logging.InitLogger(LoggerConfig(b.ServiceName, cfg.Log))
	b.Logger = logging.Default()
	b.Logger.Info("config loaded", "path", configPath, "version", cfg.Version)
	return nil
}

// LoggerConfig 将服务日志配置转换为 logging.Config.
func LoggerConfig(service string, lc config.LogConfig) logging.Config {
	return logging.Config{
		Service:    service,
		Module:     "server",
		Level:      lc.Level,
		File:       lc.File,
		Console:    lc.Console,
		MaxSize:    lc.MaxSize,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAge,
		Compress:   lc.Compress,
	}
}

// SetupTracing 按配置初始化 OpenTelemetry，返回关闭函数. 未启用或失败时返回空操作.
func (b *Bootstrapper) SetupTracing(cfg config.TracingConfig) func() {
	if !cfg.Enabled {
		return func() {}
	}
	name := cfg.ServiceName
	if name == "" {
		name = b.ServiceName
	}
	shutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:  name,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.SamplerRatio,
	})
	if err != nil {
		b.logger().Error("failed to init tracer", "error", err)
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			b.logger().Error("failed to shutdown tracer", "error", err)
		}
	}
}

func (b *Bootstrapper) logger() *logging.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return logging.Default()
}
