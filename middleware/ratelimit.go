package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/wyfcoding/montecarlo/response"
)

// RateLimit 以进程内令牌桶限制请求速率，limit<=0 时不生效.
// 模拟请求是 CPU 密集型的，因此所有客户端共享同一个桶.
func RateLimit(limit rate.Limit, burst int, logger *slog.Logger) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := rate.NewLimiter(limit, max(burst, 1))
	return func(c *gin.Context) {
		if !l.Allow() {
			logger.WarnContext(c.Request.Context(), "request rejected by rate limiter",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
				"request_id", c.GetString(ContextKeyRequestID),
			)
			response.ErrorWithStatus(c, http.StatusTooManyRequests, "too many requests", "access rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}
