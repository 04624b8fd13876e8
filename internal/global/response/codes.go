package response

// 通用错误
var (
	ErrInvalidRequest  = newError(40001, "请求参数错误")
	ErrTokenInvalid    = newError(40100, "令牌无效或已过期")
	ErrUnauthorized    = newError(40101, "权限不足")
	ErrInvalidPassword = newError(40102, "账号或密码错误")
	ErrForbidden       = newError(40301, "无权操作该资源")
	ErrNotFound        = newError(40401, "资源不存在")
	ErrAlreadyExists   = newError(40901, "资源已存在")
	ErrDatabase        = newError(50001, "数据库错误")
	ErrInternal        = newError(50000, "服务内部错误")
)

// 报名引擎错误，必须保持可区分：
// 前端要针对"已报名"/"组不存在"/"组已满"等给出不同引导
var (
	ErrAlreadyRegistered = newError(41001, "已报名该挑战")
	ErrChallengeNotOpen  = newError(41002, "挑战未开放报名")
	ErrGroupNotFound     = newError(41003, "小组邀请码不存在")
	ErrGroupFull         = newError(41004, "小组人数已满")
	ErrInvalidCapacity   = newError(41005, "小组人数上限不在允许范围内")
	ErrCodeGeneration    = newError(41006, "邀请码生成失败，请重试")
	ErrNotRegistered     = newError(41007, "未报名该挑战")
	ErrHasActiveMembers  = newError(41008, "小组尚有成员，请先转让队长或解散小组")
	ErrAnswerInvalid     = newError(41009, "报名问卷答案不合法")
)
