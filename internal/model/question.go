package model

// 题目类型，报名时按类型校验答案
const (
	QuestionText     = "text"
	QuestionTextarea = "textarea"
	QuestionSelect   = "select"
	QuestionRadio    = "radio"
	QuestionCheckbox = "checkbox"
)

type ChallengeQuestion struct {
	Model
	ChallengeID uint   `gorm:"not null;index" json:"challenge_id"`
	Label       string `gorm:"type:varchar(255);not null" json:"label"` // 题目文案
	Type        string `gorm:"type:varchar(20);not null" json:"type"`   // text / textarea / select / radio / checkbox
	Options     string `gorm:"type:text" json:"options"`                // 选项列表（JSON 数组），仅选择类题目使用
	Required    bool   `gorm:"default:false" json:"required"`
	Sort        int    `gorm:"default:0" json:"sort"` // 展示顺序
}
