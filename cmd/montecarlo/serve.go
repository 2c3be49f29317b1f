package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/wyfcoding/montecarlo/app"
	"github.com/wyfcoding/montecarlo/bootstrap"
	"github.com/wyfcoding/montecarlo/cache"
	"github.com/wyfcoding/montecarlo/config"
	"github.com/wyfcoding/montecarlo/httpapi"
	"github.com/wyfcoding/montecarlo/idgen"
	"github.com/wyfcoding/montecarlo/metrics"
	"github.com/wyfcoding/montecarlo/montecarlo"
	"github.com/wyfcoding/montecarlo/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to service config (TOML); defaults and APP_* env vars apply when empty")
	return cmd
}

func serve(ctx context.Context, configPath string) error {
	b := bootstrap.New(serviceName, version)
	var cfg config.Config
	if err := b.Initialize(configPath, &cfg); err != nil {
		return err
	}
	logger := b.Logger
	config.PrintWithMask(&cfg)

	if cfg.Server.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
		m.RegisterBuildInfo(cfg.Server.Name, cfg.Version)
	}

	shutdownTracing := b.SetupTracing(cfg.Tracing)

	engine := montecarlo.NewEngine(
		montecarlo.WithLogger(logger),
		montecarlo.WithMetrics(m),
		montecarlo.WithConcurrency(cfg.Engine.Concurrency),
		montecarlo.WithLimits(cfg.Engine.MaxPaths, cfg.Engine.MaxHorizon),
	)

	ids, err := idgen.NewSnowflakeGenerator(idgen.Config{StartTime: cfg.IDGen.StartTime, MachineID: cfg.IDGen.MachineID})
	if err != nil {
		shutdownTracing()
		return err
	}

	appOpts := []app.Option{app.WithCleanup(shutdownTracing)}
	handlerOpts := []httpapi.Option{httpapi.WithIDGenerator(ids), httpapi.WithLogger(logger)}
	if cfg.Cache.Enabled {
		c, err := cache.NewBigCache(cache.Config{TTL: cfg.Cache.TTL, Shards: cfg.Cache.Shards, MaxMB: cfg.Cache.MaxMB}, m)
		if err != nil {
			shutdownTracing()
			return err
		}
		handlerOpts = append(handlerOpts, httpapi.WithCache(c))
		appOpts = append(appOpts, app.WithCleanup(func() {
			if err := c.Close(); err != nil {
				logger.Error("failed to close cache", "error", err)
			}
		}))
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	router := httpapi.NewRouter(httpapi.NewHandler(engine, handlerOpts...), m, ids, logger.Logger, httpapi.RouterOptions{
		ServiceName:   cfg.Server.Name,
		Tracing:       cfg.Tracing.Enabled,
		MetricsPath:   metricsPath,
		MaxBodyBytes:  cfg.Server.HTTP.MaxBodyBytes,
		RateLimit:     cfg.Server.HTTP.RateLimit,
		RateBurst:     cfg.Server.HTTP.RateBurst,
		SlowThreshold: cfg.Log.SlowThreshold,
	})

	httpCfg := cfg.Server.HTTP
	srv := server.NewGinServer(router, server.Options{
		Addr:              fmt.Sprintf("%s:%d", httpCfg.Addr, httpCfg.Port),
		ReadTimeout:       httpCfg.ReadTimeout,
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
		WriteTimeout:      httpCfg.WriteTimeout,
		IdleTimeout:       httpCfg.IdleTimeout,
	}, logger.Logger)

	config.RegisterReloadHook(func(c *config.Config) {
		logger.Info("config reloaded, engine and server settings apply on restart", "log_level", c.Log.Level)
	})
	config.Watch(&cfg)

	return app.New(cfg.Server.Name, logger.Logger, append(appOpts, app.WithServer(srv))...).Run(ctx)
}
