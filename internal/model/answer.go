package model

import "time"

// ParticipantAnswer 报名时针对挑战题目的回答
// checkbox 题型的 Value 为 JSON 数组，其余题型为纯文本
type ParticipantAnswer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ChallengeParticipantID uint   `gorm:"not null;uniqueIndex:idx_participant_question,priority:1" json:"challenge_participant_id"`
	QuestionID             uint   `gorm:"not null;uniqueIndex:idx_participant_question,priority:2" json:"question_id"`
	Value                  string `gorm:"type:text" json:"value"`
}
