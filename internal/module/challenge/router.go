package challenge

import (
	"innovation-challenge-system/internal/global/middleware"
	"innovation-challenge-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleChallenge) InitRouter(r *gin.RouterGroup) {
	// 定义挑战模块的路由组，所有挑战相关端点以 /challenge 为前缀
	challengeGroup := r.Group("/challenge")

	challengeGroup.Use(middleware.Auth(model.RoleStudent))
	{
		// 挑战列表与详情对所有登录用户开放
		challengeGroup.GET("/list", ListChallenges)
		challengeGroup.GET("/get/:id", GetChallenge)
	}

	challengeGroup.Use(middleware.Auth(model.RoleBusiness))
	{
		// 企业创建与维护自己的挑战
		challengeGroup.POST("/create", CreateChallenge)
		challengeGroup.PUT("/update/:id", UpdateChallenge)
		challengeGroup.DELETE("/delete/:id", DeleteChallenge)

		// 报名名单导出
		challengeGroup.GET("/export/:id", ExportParticipants)
	}

	challengeGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		// 管理员发布与调整活动状态
		challengeGroup.PUT("/publish/:id", PublishChallenge)
		challengeGroup.PUT("/activity-status/:id", SetActivityStatus)
	}
}
