package challenge

import (
	"bytes"
	"fmt"
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/jwt"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"
	"innovation-challenge-system/tools"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// participantRow 导出报名名单的行结构，表头取 excel tag
type participantRow struct {
	StudentID             string `excel:"账号"`
	FullName              string `excel:"姓名"`
	Email                 string `excel:"邮箱"`
	PhoneNumber           string `excel:"电话"`
	ParticipationType     string `excel:"报名方式"`
	GroupName             string `excel:"小组名称"`
	GroupCode             string `excel:"邀请码"`
	Members               int    `excel:"组员数"`
	PrototypePrice        uint   `excel:"原型报价"`
	EstimatedDeliveryDays uint   `excel:"预计交付天数"`
	Status                string `excel:"审核状态"`
	RegisteredAt          string `excel:"报名时间"`
}

// ExportParticipants 导出挑战报名名单为 Excel
func ExportParticipants(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

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
	// 仅发布者本人或管理员可导出
	if challenge.OwnerID != payload.UserID && payload.RoleID < model.RoleAdmin {
		log.Warn("无权限导出名单", "id", id, "owner_id", challenge.OwnerID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限导出该挑战的名单"))
		return
	}

	var participants []model.ChallengeParticipant
	if err := database.DB.Where("challenge_id = ?", challenge.ID).
		Order("created_at ASC").Find(&participants).Error; err != nil {
		log.Error("查询报名名单失败", "error", err, "challenge_id", challenge.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]participantRow, 0, len(participants))
	for i := range participants {
		p := &participants[i]
		row := participantRow{
			StudentID:             p.StudentID,
			FullName:              p.FullName,
			Email:                 p.Email,
			PhoneNumber:           p.PhoneNumber,
			ParticipationType:     p.ParticipationType,
			GroupName:             p.GroupName,
			Members:               p.MemberCount,
			PrototypePrice:        p.PrototypePrice,
			EstimatedDeliveryDays: p.EstimatedDeliveryDays,
			Status:                p.Status,
			RegisteredAt:          p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if p.GroupCode != nil {
			row.GroupCode = *p.GroupCode
		}
		rows = append(rows, row)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "报名名单"
	if err := tools.ExportToExcel(f, sheet, rows); err != nil {
		log.Error("生成 Excel 失败", "error", err, "challenge_id", challenge.ID)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}
	// 删除默认 sheet，保留数据 sheet
	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		log.Error("写出 Excel 失败", "error", err, "challenge_id", challenge.ID)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	fileName := fmt.Sprintf("%s-报名名单-%s.xlsx", challenge.Name, time.Now().Format("20060102"))
	log.Info("导出报名名单成功", "challenge_id", challenge.ID, "count", len(rows))
	tools.SendAttachment(c, buf.Bytes(), fileName, tools.ExcelContentType)
}
