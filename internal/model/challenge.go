package model

// 挑战发布状态
const (
	PublicationDraft     = "draft"
	PublicationPublished = "published"
)

// 挑战活动状态
const (
	ActivityActive    = "active"
	ActivityCompleted = "completed"
	ActivityInactive  = "inactive"
)

type Challenge struct {
	Model
	Name              string `gorm:"type:varchar(100);not null" json:"name"`                        // 挑战名称
	Category          string `gorm:"type:varchar(50);not null" json:"category"`                     // 挑战类别，有报名后不可修改
	CompanyName       string `gorm:"type:varchar(100);not null" json:"company_name"`                // 发布企业名称
	Description       string `gorm:"type:text" json:"description"`                                  // 挑战描述
	OwnerID           string `gorm:"type:varchar(20);not null" json:"owner_id"`                     // 发布者账号，外键指向用户表
	PublicationStatus string `gorm:"type:varchar(20);not null;default:'draft'" json:"publication_status"` // draft / published
	ActivityStatus    string `gorm:"type:varchar(20);not null;default:'active'" json:"activity_status"`   // active / completed / inactive
	StartDate         int64  `gorm:"" json:"start_date"`                                            // 报名开始时间（Unix 秒）
	EndDate           int64  `gorm:"" json:"end_date"`                                              // 报名截止时间（Unix 秒）
	RewardTerms       string `gorm:"type:varchar(255)" json:"reward_terms"`                         // 奖励条款
	// 关联到发布者
	User User `gorm:"foreignKey:OwnerID;references:UserID" json:"user"`
}
