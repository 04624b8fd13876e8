package registration

import (
	"errors"
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"
	"time"

	"gorm.io/gorm"
)

// allowedCapacities 允许的小组容量（含队长）
var allowedCapacities = map[int]bool{
	2: true, 3: true, 4: true, 5: true, 6: true,
	7: true, 8: true, 9: true, 10: true, 15: true, 20: true,
}

// RegisterReq 报名请求，participation_type 决定哪些字段生效
type RegisterReq struct {
	ParticipationType string `json:"participation_type" binding:"required"` // individual / leader / join_group
	FullName          string `json:"full_name" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	PhoneNumber       string `json:"phone_number" binding:"required"`
	Motivation        string `json:"motivation"`

	// individual / leader 必填
	PrototypePrice        uint `json:"prototype_price"`
	EstimatedDeliveryDays uint `json:"estimated_delivery_days"`

	// leader 必填
	GroupName            string `json:"group_name"`
	GroupMaxParticipants int    `json:"group_max_participants"`

	// join_group 必填
	JoinGroupCode string `json:"join_group_code"`

	Answers []AnswerInput `json:"answers"`
}

// RegisterResult 报名结果，只有队长报名会带回邀请码
// 邀请码仅在这里下发一次，之后需要队长自行查询
type RegisterResult struct {
	ParticipantID uint   `json:"participant_id"`
	GroupCode     string `json:"group_code,omitempty"`
}

// GroupPreview verifyGroupCode 的返回视图
type GroupPreview struct {
	GroupName       string `json:"group_name"`
	LeaderName      string `json:"leader_name"`
	CurrentMembers  int    `json:"current_members"`
	MaxParticipants int    `json:"max_participants"`
	AvailableSpots  int    `json:"available_spots"`
	IsFull          bool   `json:"is_full"`
}

// challengeOpenForRegistration 校验挑战是否开放报名：
// 已发布、活动中、当前时间在报名窗口内
func challengeOpenForRegistration(challenge *model.Challenge, now time.Time) *response.Error {
	if challenge.PublicationStatus != model.PublicationPublished {
		return response.ErrChallengeNotOpen.WithTips("挑战尚未发布")
	}
	if challenge.ActivityStatus != model.ActivityActive {
		return response.ErrChallengeNotOpen.WithTips("挑战已结束或已下线")
	}
	ts := now.Unix()
	if ts < challenge.StartDate || ts > challenge.EndDate {
		return response.ErrChallengeNotOpen.WithTips("不在报名时间范围内")
	}
	return nil
}

// Register 执行一次报名：individual / leader / join_group 三选一
// 所有写入在同一事务内完成；(challenge_id, student_id) 的唯一索引
// 是防止并发重复报名的最终手段，唯一冲突一律翻译为 ErrAlreadyRegistered
func Register(challengeID uint, studentID string, req *RegisterReq) (*RegisterResult, *response.Error) {
	var challenge model.Challenge
	if err := database.DB.First(&challenge, "id = ?", challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound.WithTips("挑战不存在")
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	if errResp := challengeOpenForRegistration(&challenge, time.Now()); errResp != nil {
		return nil, errResp
	}

	// 预检查只用于友好提示，并发下以唯一索引为准
	var count int64
	if err := database.DB.Model(&model.ChallengeParticipant{}).
		Where("challenge_id = ? AND student_id = ?", challengeID, studentID).
		Count(&count).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	if count > 0 {
		return nil, response.ErrAlreadyRegistered
	}

	var questions []model.ChallengeQuestion
	if err := database.DB.Where("challenge_id = ?", challengeID).Find(&questions).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	answers, errResp := buildAnswers(questions, req.Answers)
	if errResp != nil {
		return nil, errResp
	}

	switch req.ParticipationType {
	case model.ParticipationIndividual:
		return registerIndividual(challengeID, studentID, req, answers)
	case model.ParticipationLeader:
		return registerLeader(challengeID, studentID, req, answers)
	case model.ParticipationJoinGroup:
		return registerJoinGroup(challengeID, studentID, req, answers)
	default:
		return nil, response.ErrInvalidRequest.WithTips("未知报名方式: " + req.ParticipationType)
	}
}

func requireProposal(req *RegisterReq) *response.Error {
	if req.PrototypePrice == 0 {
		return response.ErrInvalidRequest.WithTips("原型报价不能为空")
	}
	if req.EstimatedDeliveryDays == 0 {
		return response.ErrInvalidRequest.WithTips("预计交付天数不能为空")
	}
	return nil
}

func registerIndividual(challengeID uint, studentID string, req *RegisterReq, answers map[uint]string) (*RegisterResult, *response.Error) {
	if errResp := requireProposal(req); errResp != nil {
		return nil, errResp
	}

	participant := model.ChallengeParticipant{
		ChallengeID:           challengeID,
		StudentID:             studentID,
		ParticipationType:     model.ParticipationIndividual,
		FullName:              req.FullName,
		Email:                 req.Email,
		PhoneNumber:           req.PhoneNumber,
		Motivation:            req.Motivation,
		PrototypePrice:        req.PrototypePrice,
		EstimatedDeliveryDays: req.EstimatedDeliveryDays,
		Status:                model.SubmissionPending,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		return insertAnswers(tx, participant.ID, answers)
	})
	if err != nil {
		return nil, translateRegisterErr(err)
	}

	return &RegisterResult{ParticipantID: participant.ID}, nil
}

func registerLeader(challengeID uint, studentID string, req *RegisterReq, answers map[uint]string) (*RegisterResult, *response.Error) {
	if errResp := requireProposal(req); errResp != nil {
		return nil, errResp
	}
	if req.GroupName == "" {
		return nil, response.ErrInvalidRequest.WithTips("小组名称不能为空")
	}
	if !allowedCapacities[req.GroupMaxParticipants] {
		return nil, response.ErrInvalidCapacity
	}

	participant := model.ChallengeParticipant{
		ChallengeID:           challengeID,
		StudentID:             studentID,
		ParticipationType:     model.ParticipationLeader,
		FullName:              req.FullName,
		Email:                 req.Email,
		PhoneNumber:           req.PhoneNumber,
		Motivation:            req.Motivation,
		PrototypePrice:        req.PrototypePrice,
		EstimatedDeliveryDays: req.EstimatedDeliveryDays,
		Status:                model.SubmissionPending,
		GroupName:             req.GroupName,
		GroupMaxParticipants:  req.GroupMaxParticipants,
		MemberCount:           0,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 生成挑战内唯一的邀请码，碰撞时换码重试
		// (challenge_id, group_code) 的唯一索引兜底并发下的碰撞
		var code string
		for attempt := 0; ; attempt++ {
			if attempt >= maxCodeAttempts {
				return response.ErrCodeGeneration
			}
			candidate, err := generateCode()
			if err != nil {
				return err
			}
			var n int64
			if err := tx.Model(&model.ChallengeParticipant{}).
				Where("challenge_id = ? AND group_code = ?", challengeID, candidate).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				code = candidate
				break
			}
			log.Warn("邀请码碰撞，重试", "challenge_id", challengeID, "attempt", attempt+1)
		}

		participant.GroupCode = &code
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		return insertAnswers(tx, participant.ID, answers)
	})
	if err != nil {
		return nil, translateRegisterErr(err)
	}

	log.Info("小组创建成功",
		"challenge_id", challengeID,
		"leader", studentID,
		"capacity", req.GroupMaxParticipants,
	)

	return &RegisterResult{
		ParticipantID: participant.ID,
		GroupCode:     *participant.GroupCode,
	}, nil
}

func registerJoinGroup(challengeID uint, studentID string, req *RegisterReq, answers map[uint]string) (*RegisterResult, *response.Error) {
	if len(req.JoinGroupCode) != codeLength {
		return nil, response.ErrInvalidRequest.WithTips("邀请码必须为 8 位")
	}
	// 组员不提交独立原型方案，队长的方案覆盖整组
	if req.PrototypePrice != 0 || req.EstimatedDeliveryDays != 0 {
		return nil, response.ErrInvalidRequest.WithTips("加入小组无需提交原型方案")
	}

	participant := model.ChallengeParticipant{
		ChallengeID:       challengeID,
		StudentID:         studentID,
		ParticipationType: model.ParticipationJoinGroup,
		FullName:          req.FullName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		Motivation:        req.Motivation,
		Status:            model.SubmissionPending,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var leader model.ChallengeParticipant
		err := tx.Where("challenge_id = ? AND group_code = ? AND participation_type = ?",
			challengeID, req.JoinGroupCode, model.ParticipationLeader).
			First(&leader).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrGroupNotFound
		}
		if err != nil {
			return err
		}

		// 容量靠对队长行的条件更新保证原子性：
		// 并发加入时只有抢到名额的更新能影响到行，查完再插的竞态在这里关死
		res := tx.Model(&model.ChallengeParticipant{}).
			Where("id = ? AND member_count + 2 <= group_max_participants", leader.ID).
			UpdateColumn("member_count", gorm.Expr("member_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return response.ErrGroupFull
		}

		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		membership := model.GroupMember{
			ChallengeParticipantID: leader.ID,
			StudentID:              studentID,
			FullName:               req.FullName,
			Email:                  req.Email,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
		return insertAnswers(tx, participant.ID, answers)
	})
	if err != nil {
		return nil, translateRegisterErr(err)
	}

	log.Info("加入小组成功",
		"challenge_id", challengeID,
		"student_id", studentID,
		"code", req.JoinGroupCode,
	)

	return &RegisterResult{ParticipantID: participant.ID}, nil
}

func insertAnswers(tx *gorm.DB, participantID uint, answers map[uint]string) error {
	for qid, value := range answers {
		answer := model.ParticipantAnswer{
			ChallengeParticipantID: participantID,
			QuestionID:             qid,
			Value:                  value,
		}
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
	}
	return nil
}

// translateRegisterErr 把事务错误翻译为业务错误
// 存储层的唯一约束冲突不允许作为裸错误泄漏
func translateRegisterErr(err error) *response.Error {
	var bizErr *response.Error
	if errors.As(err, &bizErr) {
		return bizErr
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return response.ErrAlreadyRegistered
	}
	return response.ErrDatabase.WithOrigin(err)
}

// VerifyGroupCode 报名前的只读预览，不做容量拦截
// 邀请码不存在时返回 (nil, nil)，由调用方渲染"未找到"
func VerifyGroupCode(challengeID uint, code string) (*GroupPreview, *response.Error) {
	var leader model.ChallengeParticipant
	err := database.DB.Where("challenge_id = ? AND group_code = ? AND participation_type = ?",
		challengeID, code, model.ParticipationLeader).
		First(&leader).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	current := leader.MemberCount + 1 // 含队长
	available := leader.GroupMaxParticipants - current
	return &GroupPreview{
		GroupName:       leader.GroupName,
		LeaderName:      leader.FullName,
		CurrentMembers:  current,
		MaxParticipants: leader.GroupMaxParticipants,
		AvailableSpots:  available,
		IsFull:          available <= 0,
	}, nil
}

// Leave 退出报名
// 队长必须先转让或解散，组内尚有成员时拒绝退出
func Leave(challengeID uint, studentID string) *response.Error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var participant model.ChallengeParticipant
		err := tx.Where("challenge_id = ? AND student_id = ?", challengeID, studentID).
			First(&participant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotRegistered
		}
		if err != nil {
			return err
		}

		switch participant.ParticipationType {
		case model.ParticipationLeader:
			if participant.MemberCount > 0 {
				return response.ErrHasActiveMembers
			}

		case model.ParticipationJoinGroup:
			var membership model.GroupMember
			err := tx.Where("student_id = ? AND challenge_participant_id IN (?)",
				studentID,
				tx.Model(&model.ChallengeParticipant{}).Select("id").
					Where("challenge_id = ?", challengeID),
			).First(&membership).Error
			if err == nil {
				// 归还名额并移除挂接
				if err := tx.Model(&model.ChallengeParticipant{}).
					Where("id = ? AND member_count > 0", membership.ChallengeParticipantID).
					UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error; err != nil {
					return err
				}
				if err := tx.Delete(&membership).Error; err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		return deleteParticipant(tx, &participant)
	})
	if err != nil {
		var bizErr *response.Error
		if errors.As(err, &bizErr) {
			return bizErr
		}
		return response.ErrDatabase.WithOrigin(err)
	}

	log.Info("退出报名成功", "challenge_id", challengeID, "student_id", studentID)
	return nil
}

// deleteParticipant 删除报名记录及其问卷答案
func deleteParticipant(tx *gorm.DB, participant *model.ChallengeParticipant) error {
	if err := tx.Where("challenge_participant_id = ?", participant.ID).
		Delete(&model.ParticipantAnswer{}).Error; err != nil {
		return err
	}
	return tx.Delete(participant).Error
}

// TransferLeadership 队长把小组转让给指定组员
// 组名、邀请码、容量与原型方案整体转移到新队长的报名记录上
func TransferLeadership(challengeID uint, leaderStudentID, newLeaderStudentID string) *response.Error {
	if newLeaderStudentID == leaderStudentID {
		return response.ErrInvalidRequest.WithTips("不能转让给自己")
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var leader model.ChallengeParticipant
		err := tx.Where("challenge_id = ? AND student_id = ?", challengeID, leaderStudentID).
			First(&leader).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotRegistered
		}
		if err != nil {
			return err
		}
		if leader.ParticipationType != model.ParticipationLeader {
			return response.ErrForbidden.WithTips("仅队长可转让")
		}

		var membership model.GroupMember
		err = tx.Where("challenge_participant_id = ? AND student_id = ?", leader.ID, newLeaderStudentID).
			First(&membership).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound.WithTips("该成员不在小组中")
		}
		if err != nil {
			return err
		}

		var promoted model.ChallengeParticipant
		if err := tx.Where("challenge_id = ? AND student_id = ?", challengeID, newLeaderStudentID).
			First(&promoted).Error; err != nil {
			return err
		}

		groupCode := leader.GroupCode

		// 先删旧队长记录，释放 (challenge_id, group_code) 唯一索引
		if err := tx.Delete(&membership).Error; err != nil {
			return err
		}
		if err := deleteParticipant(tx, &leader); err != nil {
			return err
		}

		// 其余组员的挂接改指向新队长
		if err := tx.Model(&model.GroupMember{}).
			Where("challenge_participant_id = ?", leader.ID).
			Update("challenge_participant_id", promoted.ID).Error; err != nil {
			return err
		}

		return tx.Model(&promoted).Updates(map[string]any{
			"participation_type":      model.ParticipationLeader,
			"group_name":              leader.GroupName,
			"group_max_participants":  leader.GroupMaxParticipants,
			"group_code":              groupCode,
			"member_count":            leader.MemberCount - 1,
			"prototype_price":         leader.PrototypePrice,
			"estimated_delivery_days": leader.EstimatedDeliveryDays,
		}).Error
	})
	if err != nil {
		var bizErr *response.Error
		if errors.As(err, &bizErr) {
			return bizErr
		}
		return response.ErrDatabase.WithOrigin(err)
	}

	log.Info("队长转让成功",
		"challenge_id", challengeID,
		"from", leaderStudentID,
		"to", newLeaderStudentID,
	)
	return nil
}

// Dissolve 队长解散小组：移除全部组员的报名与挂接，队长保留报名
// 解散后小组为空，队长可以正常退出
func Dissolve(challengeID uint, leaderStudentID string) *response.Error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var leader model.ChallengeParticipant
		err := tx.Where("challenge_id = ? AND student_id = ?", challengeID, leaderStudentID).
			First(&leader).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotRegistered
		}
		if err != nil {
			return err
		}
		if leader.ParticipationType != model.ParticipationLeader {
			return response.ErrForbidden.WithTips("仅队长可解散小组")
		}

		var memberships []model.GroupMember
		if err := tx.Where("challenge_participant_id = ?", leader.ID).
			Find(&memberships).Error; err != nil {
			return err
		}

		for i := range memberships {
			var member model.ChallengeParticipant
			err := tx.Where("challenge_id = ? AND student_id = ?", challengeID, memberships[i].StudentID).
				First(&member).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := deleteParticipant(tx, &member); err != nil {
				return err
			}
		}

		if err := tx.Where("challenge_participant_id = ?", leader.ID).
			Delete(&model.GroupMember{}).Error; err != nil {
			return err
		}

		return tx.Model(&leader).UpdateColumn("member_count", 0).Error
	})
	if err != nil {
		var bizErr *response.Error
		if errors.As(err, &bizErr) {
			return bizErr
		}
		return response.ErrDatabase.WithOrigin(err)
	}

	log.Info("小组解散成功", "challenge_id", challengeID, "leader", leaderStudentID)
	return nil
}

// UpdateSubmissionReq 更新原型方案请求，指针类型支持部分更新
type UpdateSubmissionReq struct {
	PrototypePrice        *uint   `json:"prototype_price"`
	EstimatedDeliveryDays *uint   `json:"estimated_delivery_days"`
	Motivation            *string `json:"motivation"`
}

// UpdateSubmission 更新原型方案
// 仅记录归属人可改；组员没有独立方案，一律拒绝
func UpdateSubmission(participantID uint, studentID string, req *UpdateSubmissionReq) (*model.ChallengeParticipant, *response.Error) {
	var participant model.ChallengeParticipant
	if err := database.DB.First(&participant, "id = ?", participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotRegistered
		}
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	if participant.StudentID != studentID {
		return nil, response.ErrForbidden.WithTips("无权修改他人的报名")
	}
	if participant.ParticipationType == model.ParticipationJoinGroup {
		return nil, response.ErrForbidden.WithTips("组员没有独立原型方案")
	}

	if req.PrototypePrice != nil {
		if *req.PrototypePrice == 0 {
			return nil, response.ErrInvalidRequest.WithTips("原型报价不能为空")
		}
		participant.PrototypePrice = *req.PrototypePrice
	}
	if req.EstimatedDeliveryDays != nil {
		if *req.EstimatedDeliveryDays == 0 {
			return nil, response.ErrInvalidRequest.WithTips("预计交付天数不能为空")
		}
		participant.EstimatedDeliveryDays = *req.EstimatedDeliveryDays
	}
	if req.Motivation != nil {
		participant.Motivation = *req.Motivation
	}

	if err := database.DB.Save(&participant).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	return &participant, nil
}
