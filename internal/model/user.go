package model

// 用户角色，Auth 中间件按最小角色放行
const (
	RoleStudent  = 0
	RoleBusiness = 1
	RoleAdmin    = 2
)

type User struct {
	Model
	UserID   string `gorm:"type:varchar(20);uniqueIndex;not null" json:"user_id"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	RoleID   int    `gorm:"default:0;not null" json:"role_id"`
	NickName string `gorm:"type:varchar(50);not null" json:"nick_name"`
	Email    string `gorm:"type:varchar(100);" json:"email"`
}
