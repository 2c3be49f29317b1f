package server

import "context"

// Server 统一的服务生命周期契约.
type Server interface {
	// Start 阻塞运行，直到 ctx 取消或服务出错.
	Start(ctx context.Context) error
	// Stop 优雅停止，等待进行中的请求完成.
	Stop(ctx context.Context) error
}
