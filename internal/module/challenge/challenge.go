package challenge

import (
	"encoding/json"
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/jwt"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// QuestionDef 创建挑战时的题目定义
type QuestionDef struct {
	Label    string   `json:"label" binding:"required"` // 题目文案
	Type     string   `json:"type" binding:"required"`  // text / textarea / select / radio / checkbox
	Options  []string `json:"options"`                  // 选择类题目的选项
	Required bool     `json:"required"`
	Sort     int      `json:"sort"`
}

// ChallengeCreateReq 定义创建挑战请求的结构体
type ChallengeCreateReq struct {
	Name        string        `json:"name" binding:"required"`         // 挑战名称
	Category    string        `json:"category" binding:"required"`     // 挑战类别
	CompanyName string        `json:"company_name" binding:"required"` // 发布企业名称
	Description string        `json:"description"`                     // 挑战描述
	StartDate   int64         `json:"start_date" binding:"required"`   // 报名开始时间
	EndDate     int64         `json:"end_date" binding:"required"`     // 报名截止时间
	RewardTerms string        `json:"reward_terms"`                    // 奖励条款
	Questions   []QuestionDef `json:"questions"`                       // 报名问卷题目
}

// ChallengeUpdateReq 定义更新挑战请求的结构体，使用指针类型支持部分更新
type ChallengeUpdateReq struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"` // 有报名后不可修改
	CompanyName *string `json:"company_name"`
	Description *string `json:"description"`
	StartDate   *int64  `json:"start_date"` // 有报名后不可修改
	EndDate     *int64  `json:"end_date"`   // 有报名后不可修改
	RewardTerms *string `json:"reward_terms"`
}

// validateQuestionDef 校验题目定义：选择类题目必须给出选项，其余不允许带选项
func validateQuestionDef(q *QuestionDef) *response.Error {
	switch q.Type {
	case model.QuestionText, model.QuestionTextarea:
		if len(q.Options) > 0 {
			return response.ErrInvalidRequest.WithTips("文本类题目不允许携带选项")
		}
	case model.QuestionSelect, model.QuestionRadio, model.QuestionCheckbox:
		if len(q.Options) < 2 {
			return response.ErrInvalidRequest.WithTips("选择类题目至少需要两个选项")
		}
	default:
		return response.ErrInvalidRequest.WithTips("未知题目类型: " + q.Type)
	}
	return nil
}

// CreateChallenge 处理创建挑战请求
func CreateChallenge(c *gin.Context) {
	// 获取认证信息
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	// 定义请求结构体并绑定 JSON 数据
	var req ChallengeCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建挑战请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if req.EndDate <= req.StartDate {
		response.Fail(c, response.ErrInvalidRequest.WithTips("截止时间必须晚于开始时间"))
		return
	}
	for i := range req.Questions {
		if errResp := validateQuestionDef(&req.Questions[i]); errResp != nil {
			response.Fail(c, errResp)
			return
		}
	}

	var existing model.Challenge
	// 同名同期的挑战视为重复创建
	err := database.DB.Where("name = ? AND start_date = ?", req.Name, req.StartDate).First(&existing).Error
	if err == nil {
		log.Warn("挑战已存在", "name", req.Name, "start_date", req.StartDate)
		response.Fail(c, response.ErrAlreadyExists.WithTips("挑战已存在"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("数据库查询失败", "error", err, "name", req.Name)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	challenge := model.Challenge{
		Name:              req.Name,
		Category:          req.Category,
		CompanyName:       req.CompanyName,
		Description:       req.Description,
		OwnerID:           payload.UserID,
		PublicationStatus: model.PublicationDraft,
		ActivityStatus:    model.ActivityActive,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		RewardTerms:       req.RewardTerms,
	}

	// 挑战与问卷题目一起落库
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&challenge).Error; err != nil {
			return err
		}
		for i := range req.Questions {
			q := &req.Questions[i]
			options := ""
			if len(q.Options) > 0 {
				raw, err := json.Marshal(q.Options)
				if err != nil {
					return err
				}
				options = string(raw)
			}
			question := model.ChallengeQuestion{
				ChallengeID: challenge.ID,
				Label:       q.Label,
				Type:        q.Type,
				Options:     options,
				Required:    q.Required,
				Sort:        q.Sort,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("创建挑战失败", "error", err, "name", req.Name)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info(
		"挑战创建成功",
		"name", req.Name,
		"owner_id", payload.UserID,
	)

	response.Success(c, gin.H{
		"challenge_id": challenge.ID,
	})
}

// ListChallengesReq 定义获取挑战列表的查询参数结构体
type ListChallengesReq struct {
	OwnerID  string `form:"owner_id" json:"owner_id"`   // 发布者筛选
	Category string `form:"category" json:"category"`   // 类别筛选
	Status   string `form:"status" json:"status"`       // 活动状态筛选
	Page     int    `form:"page" json:"page"`           // 页码，默认为1
	PageSize int    `form:"page_size" json:"page_size"` // 每页大小，默认为10
	Name     string `form:"name" json:"name"`           // 挑战名称模糊查询
}

// ListChallenges 获取挑战列表（支持查询参数）
func ListChallenges(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	// 绑定查询参数到结构体
	var req ListChallengesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("绑定查询参数失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 设置默认值
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}

	// 构建查询条件
	query := database.DB.Model(&model.Challenge{})

	// 学生只能看到已发布的挑战，企业与管理员能看到草稿
	if payload.RoleID < model.RoleBusiness {
		query = query.Where("publication_status = ?", model.PublicationPublished)
	}
	if req.OwnerID != "" {
		query = query.Where("owner_id = ?", req.OwnerID)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Status != "" {
		query = query.Where("activity_status = ?", req.Status)
	}
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}

	// 计算总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("获取挑战总数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var challenges []model.Challenge
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("User").Offset(offset).Limit(req.PageSize).Find(&challenges).Error; err != nil {
		log.Error("获取挑战列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	result := map[string]any{
		"challenges":  challenges,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	}

	log.Info("获取挑战列表成功",
		"count", len(challenges),
		"total", total,
		"page", req.Page,
		"page_size", req.PageSize)

	response.Success(c, result)
}

// GetChallenge 获取单个挑战详情，附带问卷题目与报名填充情况
func GetChallenge(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		log.Error("挑战ID不能为空")
		response.Fail(c, response.ErrInvalidRequest.WithTips("挑战ID不能为空"))
		return
	}

	var challenge model.Challenge
	if err := database.DB.Preload("User").First(&challenge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("挑战不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("挑战不存在"))
			return
		}
		log.Error("查询挑战失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var questions []model.ChallengeQuestion
	if err := database.DB.Where("challenge_id = ?", challenge.ID).Order("sort ASC").Find(&questions).Error; err != nil {
		log.Error("查询问卷题目失败", "error", err, "challenge_id", challenge.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var participantCount int64
	if err := database.DB.Model(&model.ChallengeParticipant{}).
		Where("challenge_id = ?", challenge.ID).
		Count(&participantCount).Error; err != nil {
		log.Error("统计报名人数失败", "error", err, "challenge_id", challenge.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	result := gin.H{
		"challenge":         challenge,
		"questions":         questions,
		"participant_count": participantCount,
	}

	log.Info("获取挑战详情成功",
		"id", challenge.ID,
		"name", challenge.Name,
	)

	response.Success(c, result)
}

// UpdateChallenge 处理更新挑战请求
// 已有报名时类别与起止时间不可再修改，避免破坏既有报名
func UpdateChallenge(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		log.Error("挑战ID不能为空")
		response.Fail(c, response.ErrInvalidRequest.WithTips("挑战ID不能为空"))
		return
	}

	var req ChallengeUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新挑战请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var challenge model.Challenge
	if err := database.DB.First(&challenge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("挑战不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("挑战不存在"))
			return
		}
		log.Error("查询挑战失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 权限检查：仅发布者本人或管理员可修改
	if challenge.OwnerID != payload.UserID && payload.RoleID < model.RoleAdmin {
		log.Warn("无权限更新挑战", "id", id, "owner_id", challenge.OwnerID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限更新该挑战"))
		return
	}

	if req.Category != nil || req.StartDate != nil || req.EndDate != nil {
		var participantCount int64
		if err := database.DB.Model(&model.ChallengeParticipant{}).
			Where("challenge_id = ?", challenge.ID).
			Count(&participantCount).Error; err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		if participantCount > 0 {
			response.Fail(c, response.ErrForbidden.WithTips("已有报名，类别与起止时间不可修改"))
			return
		}
	}

	if req.Name != nil {
		challenge.Name = *req.Name
	}
	if req.Category != nil {
		challenge.Category = *req.Category
	}
	if req.CompanyName != nil {
		challenge.CompanyName = *req.CompanyName
	}
	if req.Description != nil {
		challenge.Description = *req.Description
	}
	if req.StartDate != nil {
		challenge.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		challenge.EndDate = *req.EndDate
	}
	if req.RewardTerms != nil {
		challenge.RewardTerms = *req.RewardTerms
	}
	if challenge.EndDate <= challenge.StartDate {
		response.Fail(c, response.ErrInvalidRequest.WithTips("截止时间必须晚于开始时间"))
		return
	}

	if err := database.DB.Save(&challenge).Error; err != nil {
		log.Error("更新挑战失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("挑战更新成功",
		"id", challenge.ID,
		"name", challenge.Name,
	)

	response.Success(c)
}

// DeleteChallenge 处理删除挑战请求，有报名记录时不允许删除
func DeleteChallenge(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		log.Error("挑战ID不能为空")
		response.Fail(c, response.ErrInvalidRequest.WithTips("挑战ID不能为空"))
		return
	}

	var challenge model.Challenge
	if err := database.DB.First(&challenge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("挑战不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("挑战不存在"))
			return
		}
		log.Error("查询挑战失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if challenge.OwnerID != payload.UserID && payload.RoleID < model.RoleAdmin {
		log.Warn("无权限删除挑战", "id", id, "owner_id", challenge.OwnerID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限删除该挑战"))
		return
	}

	var participantCount int64
	if err := database.DB.Model(&model.ChallengeParticipant{}).
		Where("challenge_id = ?", challenge.ID).
		Count(&participantCount).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if participantCount > 0 {
		response.Fail(c, response.ErrForbidden.WithTips("已有报名，无法删除挑战"))
		return
	}

	if err := database.DB.Delete(&challenge).Error; err != nil {
		log.Error("删除挑战失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("挑战删除成功",
		"id", challenge.ID,
	)

	response.Success(c)
}

// PublishChallenge 管理员把草稿挑战置为已发布
func PublishChallenge(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("挑战ID不能为空"))
		return
	}

	var challenge model.Challenge
	if err := database.DB.First(&challenge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("挑战不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if challenge.PublicationStatus == model.PublicationPublished {
		response.Fail(c, response.ErrAlreadyExists.WithTips("挑战已发布"))
		return
	}

	challenge.PublicationStatus = model.PublicationPublished
	if err := database.DB.Save(&challenge).Error; err != nil {
		log.Error("发布挑战失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("挑战发布成功", "id", challenge.ID, "name", challenge.Name)
	response.Success(c)
}

// SetActivityStatusReq 调整活动状态请求
type SetActivityStatusReq struct {
	ActivityStatus string `json:"activity_status" binding:"required"` // active / completed / inactive
}

// SetActivityStatus 管理员调整挑战活动状态
func SetActivityStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("挑战ID不能为空"))
		return
	}

	var req SetActivityStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	switch req.ActivityStatus {
	case model.ActivityActive, model.ActivityCompleted, model.ActivityInactive:
	default:
		response.Fail(c, response.ErrInvalidRequest.WithTips("未知活动状态: "+req.ActivityStatus))
		return
	}

	var challenge model.Challenge
	if err := database.DB.First(&challenge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("挑战不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	challenge.ActivityStatus = req.ActivityStatus
	if err := database.DB.Save(&challenge).Error; err != nil {
		log.Error("调整活动状态失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动状态调整成功", "id", challenge.ID, "activity_status", req.ActivityStatus)
	response.Success(c)
}
