package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 访问日志中间件. slowThreshold>0 时超阈值请求以 Warn 级别记录.
// trace_id 由 logging.TraceHandler 从请求上下文注入.
func Logger(logger *slog.Logger, slowThreshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		level := slog.LevelInfo
		msg := "http request"
		if slowThreshold > 0 && cost > slowThreshold {
			level = slog.LevelWarn
			msg = "slow http request"
		}
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}

		logger.Log(c.Request.Context(), level, msg,
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"ip", c.ClientIP(),
			"cost", cost,
			"request_id", c.GetString(ContextKeyRequestID),
			"user_agent", c.Request.UserAgent(),
		)
	}
}
