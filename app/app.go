// Package app 管理进程生命周期: 启动服务器、监听退出信号、优雅关闭并执行资源清理.
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wyfcoding/montecarlo/server"
)

// App 应用程序容器.
type App struct {
	name   string
	logger *slog.Logger
	opts   options
}

// New 创建应用程序实例.
func New(name string, logger *slog.Logger, opts ...Option) *App {
	o := options{shutdownTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	return &App{name: name, logger: logger, opts: o}
}

// Run 启动所有服务器并阻塞，直到收到 SIGINT/SIGTERM、ctx 取消或任一服务器出错.
// 之后依次停止服务器并按注册逆序执行清理函数.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application starting", "name", a.name, "pid", os.Getpid())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(a.opts.servers))
	for _, srv := range a.opts.servers {
		go func(s server.Server) {
			if err := s.Start(runCtx); err != nil {
				a.logger.Error("server exited with error", "error", err)
				errCh <- err
				cancel()
			}
		}(srv)
	}

	var runErr error
	select {
	case <-runCtx.Done():
	case runErr = <-errCh:
	}
	a.logger.Info("shutting down application", "name", a.name)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.opts.shutdownTimeout)
	defer shutdownCancel()

	for _, srv := range a.opts.servers {
		if err := srv.Stop(shutdownCtx); err != nil {
			a.logger.Error("server failed to stop", "error", err)
			if runErr == nil {
				runErr = err
			}
		}
	}

	for i := len(a.opts.cleanups) - 1; i >= 0; i-- {
		a.opts.cleanups[i]()
	}

	a.logger.Info("application shut down", "name", a.name)
	return runErr
}
