package test

import (
	"bytes"
	"encoding/json"
	"innovation-challenge-system/internal/global/jwt"
	"innovation-challenge-system/internal/global/response"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Request 构造一次 handler 调用
type Request struct {
	Body   any        // JSON 请求体，nil 表示无请求体
	Params gin.Params // 路径参数
	Query  string     // 原始查询串，如 "code=ABCD2345"
	Claims *jwt.Claims // 模拟 Auth 中间件放入的认证信息
}

// DoRequest 直接调用 handler 并解析统一响应体
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, req Request) (resp response.ResponseBody) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body *bytes.Reader
	if req.Body != nil {
		requestBytes, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(requestBytes)
	} else {
		body = bytes.NewReader(nil)
	}

	target := "/test"
	if req.Query != "" {
		target += "?" + req.Query
	}
	c.Request = httptest.NewRequest(http.MethodPost, target, body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = req.Params
	if req.Claims != nil {
		c.Set("payload", req.Claims)
	}

	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}
