package model

import "time"

// 报名方式
const (
	ParticipationIndividual = "individual"
	ParticipationLeader     = "leader"
	ParticipationJoinGroup  = "join_group"
)

// 报名审核状态
const (
	SubmissionPending  = "pending"
	SubmissionReviewed = "reviewed"
)

// ChallengeParticipant 一个学生对一个挑战的报名记录
// (challenge_id, student_id) 唯一约束是防止重复报名的最终手段，
// 应用层的预检查只用于给出友好提示
// 组队字段仅队长记录使用；group_code 在挑战内唯一（非队长记录为 NULL）
// member_count 为当前组员数（不含队长），容量校验依赖对它的条件更新
// 报名记录不走软删除：软删除的行仍会占住唯一索引，导致退出后无法重新报名
type ChallengeParticipant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ChallengeID uint   `gorm:"not null;uniqueIndex:idx_challenge_student,priority:1;uniqueIndex:idx_challenge_code,priority:1" json:"challenge_id"`
	StudentID   string `gorm:"type:varchar(20);not null;uniqueIndex:idx_challenge_student,priority:2" json:"student_id"`

	ParticipationType string `gorm:"type:varchar(20);not null" json:"participation_type"` // individual / leader / join_group

	FullName    string `gorm:"type:varchar(100);not null" json:"full_name"`
	Email       string `gorm:"type:varchar(100);not null" json:"email"`
	PhoneNumber string `gorm:"type:varchar(30);not null" json:"phone_number"`
	Motivation  string `gorm:"type:text" json:"motivation"`

	// 原型方案，仅 individual / leader 持有
	PrototypePrice        uint `gorm:"default:0" json:"prototype_price"`
	EstimatedDeliveryDays uint `gorm:"default:0" json:"estimated_delivery_days"`

	Status string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending / reviewed

	GroupName            string  `gorm:"type:varchar(100)" json:"group_name"`
	GroupMaxParticipants int     `gorm:"default:0" json:"group_max_participants"` // 含队长的容量上限
	GroupCode            *string `gorm:"type:varchar(8);uniqueIndex:idx_challenge_code,priority:2" json:"group_code,omitempty"`
	MemberCount          int     `gorm:"default:0" json:"member_count"`
}
