package model

import "time"

// GroupMember 组员对队长报名记录的挂接
// (challenge_participant_id, student_id) 唯一；组员同时持有自己的
// ChallengeParticipant 记录（join_group 类型），同挑战不可再入其他组
type GroupMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"joined_at"`

	ChallengeParticipantID uint   `gorm:"not null;uniqueIndex:idx_leader_student,priority:1" json:"challenge_participant_id"`
	StudentID              string `gorm:"type:varchar(20);not null;uniqueIndex:idx_leader_student,priority:2" json:"student_id"`
	FullName               string `gorm:"type:varchar(100);not null" json:"full_name"`
	Email                  string `gorm:"type:varchar(100);not null" json:"email"`
}
