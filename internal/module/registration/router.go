package registration

import (
	"innovation-challenge-system/internal/global/middleware"
	"innovation-challenge-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleRegistration) InitRouter(r *gin.RouterGroup) {
	// 定义报名模块的路由组，所有报名相关端点以 /registration 为前缀
	registrationGroup := r.Group("/registration")

	registrationGroup.Use(middleware.Auth(model.RoleStudent))
	{
		// 报名（individual / leader / join_group 三选一）
		registrationGroup.POST("/register/:challenge_id", RegisterHandler)

		// 邀请码预览
		registrationGroup.GET("/verify/:challenge_id", VerifyHandler)

		// 我的报名与小组名册
		registrationGroup.GET("/mine/:challenge_id", MineHandler)

		// 退出报名
		registrationGroup.DELETE("/leave/:challenge_id", LeaveHandler)

		// 队长转让与解散，退出前的显式步骤
		registrationGroup.POST("/transfer/:challenge_id", TransferHandler)
		registrationGroup.POST("/dissolve/:challenge_id", DissolveHandler)

		// 更新原型方案
		registrationGroup.PUT("/submission/:participant_id", UpdateSubmissionHandler)
	}
}
