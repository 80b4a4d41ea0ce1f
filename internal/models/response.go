package models

import (
	"time"

	"gorm.io/datatypes"
)

// Response is a participant's answer to one question within a session.
// There is at most one row per (session, question); later submissions overwrite it.
type Response struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	SessionID  uint           `json:"session_id" gorm:"not null;uniqueIndex:idx_response_session_question"`
	QuestionID uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_response_session_question;index"`
	AnswerData datatypes.JSON `json:"answer_data" gorm:"type:jsonb"`
	Score      float64        `json:"score" gorm:"default:0"`
	IsCorrect  bool           `json:"is_correct" gorm:"default:false"`
	AnsweredAt time.Time      `json:"answered_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Question *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (Response) TableName() string {
	return "quiz_responses"
}
