// Package server 提供 HTTP 服务的启动与优雅关闭封装.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Options HTTP 服务器超时参数，零值表示不限制.
type Options struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// GinServer 运行 Gin 引擎的 http.Server.
type GinServer struct {
	server *http.Server
	logger *slog.Logger
	ready  chan struct{}
	addr   net.Addr
}

// NewGinServer 创建 Gin 服务器实例.
func NewGinServer(engine *gin.Engine, opts Options, logger *slog.Logger) *GinServer {
	return &GinServer{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           engine,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadHeaderTimeout,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       opts.IdleTimeout,
		},
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Start 监听并服务，ctx 取消后优雅关闭.
func (s *GinServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr()
	close(s.ready)
	s.logger.Info("starting gin server", "addr", s.addr.String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("gin server stopping due to context cancellation")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Addr 阻塞到监听建立后返回实际地址.
func (s *GinServer) Addr() net.Addr {
	<-s.ready
	return s.addr
}

// Stop 优雅地停止服务器.
func (s *GinServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping gin server gracefully")
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
