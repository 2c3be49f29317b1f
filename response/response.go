// Package response 提供统一的 HTTP 响应封装 {code, msg, data}，并将 xerrors 映射为 HTTP 状态码.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/montecarlo/xerrors"
)

// Success 发送成功响应: HTTP 200，业务码 0.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"msg":  "success",
		"data": data,
	})
}

// SuccessWithRawData 发送不包装的原始数据，用于健康检查等系统接口.
func SuccessWithRawData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error 发送错误响应. *xerrors.Error 使用其业务码与 HTTPStatus，其它错误按 500 处理.
func Error(c *gin.Context, err error) {
	if err == nil {
		Success(c, nil)
		return
	}

	var xe *xerrors.Error
	if errors.As(err, &xe) {
		c.JSON(xe.HTTPStatus(), gin.H{
			"code":   xe.Code,
			"msg":    xe.Message,
			"detail": xe.Detail,
		})
		return
	}

	ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", err.Error())
}

// ErrorWithStatus 发送指定状态码、消息与详情的错误响应.
func ErrorWithStatus(c *gin.Context, status int, msg string, detail string) {
	c.JSON(status, gin.H{
		"code":   status,
		"msg":    msg,
		"detail": detail,
	})
}
