package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/montecarlo/idgen"
)

const (
	HeaderXRequestID    = "X-Request-ID"
	ContextKeyRequestID = "request_id"
)

type requestIDKey struct{}

// RequestID 透传或生成请求 ID，并写入请求上下文与响应头.
func RequestID(gen idgen.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderXRequestID)
		if requestID == "" && gen != nil {
			requestID = gen.GenerateString()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDKey{}, requestID))
		c.Header(HeaderXRequestID, requestID)

		c.Next()
	}
}

// RequestIDFromContext 读取 RequestID 中间件注入的请求 ID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
