package response

import (
	"net/http"

	"innovation-challenge-system/config"

	"github.com/gin-gonic/gin"
)

// ResponseBody 统一响应体
type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Origin string `json:"origin,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Success 返回成功响应，data 可选
func Success(c *gin.Context, data ...any) {
	body := ResponseBody{
		Code: 200,
		Msg:  "success",
	}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.Set(ResponseContextKey, body)
	c.JSON(http.StatusOK, body)
}

// Fail 返回失败响应，错误码与提示来自 *Error
func Fail(c *gin.Context, err *Error) {
	body := ResponseBody{
		Code: err.Code,
		Msg:  err.Message,
	}
	// 原始错误只在 debug 模式下下发
	if config.Get().Mode == config.ModeDebug {
		body.Origin = err.Origin
	}
	c.Set(ErrorContextKey, err)
	c.Set(ResponseContextKey, body)
	c.JSON(http.StatusOK, body)
}

// Recovery 捕获 handler 中的 panic，统一转为内部错误响应
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			Fail(c, ErrInternal)
			c.Abort()
			return
		}
		Fail(c, ErrInternal.WithOrigin(err))
		c.Abort()
	}
}
