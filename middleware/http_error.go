// Package middleware 提供 HTTP 接口使用的 Gin 中间件.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/montecarlo/response"
)

// HTTPErrorHandler 在处理器通过 c.Error 登记错误且尚未写出响应时，输出统一错误响应.
func HTTPErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		response.Error(c, c.Errors.Last().Err)
	}
}
