package registration

import (
	"errors"
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/jwt"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips(name+" 不合法"))
		return 0, false
	}
	return uint(id), true
}

// RegisterHandler 处理报名请求
func RegisterHandler(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	challengeID, ok := parseIDParam(c, "challenge_id")
	if !ok {
		return
	}

	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定报名请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	result, errResp := Register(challengeID, payload.UserID, &req)
	if errResp != nil {
		log.Warn("报名失败",
			"challenge_id", challengeID,
			"student_id", payload.UserID,
			"type", req.ParticipationType,
			"code", errResp.Code,
		)
		response.Fail(c, errResp)
		return
	}

	log.Info("报名成功",
		"challenge_id", challengeID,
		"student_id", payload.UserID,
		"type", req.ParticipationType,
	)
	response.Success(c, result)
}

// VerifyHandler 报名前校验邀请码，预览小组状态
func VerifyHandler(c *gin.Context) {
	challengeID, ok := parseIDParam(c, "challenge_id")
	if !ok {
		return
	}
	code := c.Query("code")
	if code == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("邀请码不能为空"))
		return
	}

	preview, errResp := VerifyGroupCode(challengeID, code)
	if errResp != nil {
		response.Fail(c, errResp)
		return
	}
	// 未命中不报错，前端据 found 字段渲染"未找到"
	if preview == nil {
		response.Success(c, gin.H{"found": false})
		return
	}
	response.Success(c, gin.H{
		"found": true,
		"group": preview,
	})
}

// LeaveHandler 退出报名
func LeaveHandler(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	challengeID, ok := parseIDParam(c, "challenge_id")
	if !ok {
		return
	}

	if errResp := Leave(challengeID, payload.UserID); errResp != nil {
		response.Fail(c, errResp)
		return
	}
	response.Success(c)
}

// TransferReq 转让队长请求
type TransferReq struct {
	NewLeaderStudentID string `json:"new_leader_student_id" binding:"required"`
}

// TransferHandler 队长转让
func TransferHandler(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	challengeID, ok := parseIDParam(c, "challenge_id")
	if !ok {
		return
	}

	var req TransferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if errResp := TransferLeadership(challengeID, payload.UserID, req.NewLeaderStudentID); errResp != nil {
		response.Fail(c, errResp)
		return
	}
	response.Success(c)
}

// DissolveHandler 解散小组
func DissolveHandler(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	challengeID, ok := parseIDParam(c, "challenge_id")
	if !ok {
		return
	}

	if errResp := Dissolve(challengeID, payload.UserID); errResp != nil {
		response.Fail(c, errResp)
		return
	}
	response.Success(c)
}

// UpdateSubmissionHandler 更新原型方案
func UpdateSubmissionHandler(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	participantID, ok := parseIDParam(c, "participant_id")
	if !ok {
		return
	}

	var req UpdateSubmissionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	participant, errResp := UpdateSubmission(participantID, payload.UserID, &req)
	if errResp != nil {
		response.Fail(c, errResp)
		return
	}

	log.Info("原型方案更新成功",
		"participant_id", participant.ID,
		"student_id", payload.UserID,
	)
	response.Success(c, participant)
}

// MineHandler 查询自己在某挑战下的报名与小组名册
func MineHandler(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	challengeID, ok := parseIDParam(c, "challenge_id")
	if !ok {
		return
	}

	var participant model.ChallengeParticipant
	err := database.DB.Where("challenge_id = ? AND student_id = ?", challengeID, payload.UserID).
		First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Fail(c, response.ErrNotRegistered)
		return
	}
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	result := gin.H{"registration": participant}

	// 队长或组员附带小组名册
	var leader *model.ChallengeParticipant
	switch participant.ParticipationType {
	case model.ParticipationLeader:
		leader = &participant
	case model.ParticipationJoinGroup:
		var membership model.GroupMember
		err := database.DB.Where("student_id = ? AND challenge_participant_id IN (?)",
			payload.UserID,
			database.DB.Model(&model.ChallengeParticipant{}).Select("id").
				Where("challenge_id = ?", challengeID),
		).First(&membership).Error
		if err == nil {
			var l model.ChallengeParticipant
			if err := database.DB.First(&l, "id = ?", membership.ChallengeParticipantID).Error; err == nil {
				leader = &l
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
	}

	if leader != nil {
		var members []model.GroupMember
		if err := database.DB.Where("challenge_participant_id = ?", leader.ID).
			Order("created_at ASC").Find(&members).Error; err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		current := leader.MemberCount + 1
		result["group"] = gin.H{
			"group_name":       leader.GroupName,
			"leader_name":      leader.FullName,
			"group_code":       leader.GroupCode,
			"current_members":  current,
			"max_participants": leader.GroupMaxParticipants,
			"available_spots":  leader.GroupMaxParticipants - current,
			"members":          members,
		}
	}

	response.Success(c, result)
}
