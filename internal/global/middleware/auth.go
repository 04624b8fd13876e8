package middleware

import (
	"innovation-challenge-system/internal/global/jwt"
	"innovation-challenge-system/internal/global/redisstore"
	"innovation-challenge-system/internal/global/response"
	"strings"

	"github.com/gin-gonic/gin"
)

// Auth 校验 Bearer 令牌并按最小角色放行
// 解析出的 Claims 放入上下文，handler 通过 jwt.GetUserPayload 显式取用
func Auth(minRoleID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取 Authorization 头
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		// 检查 Bearer 前缀并提取 token
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		// 解析 token
		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		// 已登出的令牌按无效处理
		if redisstore.IsTokenBlacklisted(c.Request.Context(), payload.Id) {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		if payload.RoleID < minRoleID {
			response.Fail(c, response.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set("payload", payload)
		c.Next()
	}
}
