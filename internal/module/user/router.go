package user

import (
	"innovation-challenge-system/internal/global/middleware"
	"innovation-challenge-system/internal/model"

	"github.com/gin-gonic/gin"
)

// InitRouter 初始化用户模块的路由
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	// 定义用户模块的路由组，所有用户相关端点以 /user 为前缀
	userGroup := r.Group("/user")

	// 注册与登录无需令牌
	userGroup.POST("/register", Register)
	userGroup.POST("/login", Login)

	userGroup.Use(middleware.Auth(model.RoleStudent))
	{
		userGroup.POST("/logout", Logout)
		userGroup.GET("/profile", Profile)
	}
}
