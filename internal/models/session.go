package models

import (
	"time"

	"gorm.io/datatypes"
)

type SessionState string

const (
	SessionDraft      SessionState = "draft"
	SessionInProgress SessionState = "in_progress"
	SessionCompleted  SessionState = "completed"
	SessionExpired    SessionState = "expired"
)

// IsTerminal reports whether the session no longer accepts answers.
func (s SessionState) IsTerminal() bool {
	return s == SessionCompleted || s == SessionExpired
}

type Session struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	QuizID           uint         `json:"quiz_id" gorm:"not null;index"`
	ModeID           *uint        `json:"mode_id" gorm:"index"`
	Token            string       `json:"token" gorm:"not null;size:64;uniqueIndex"`
	State            SessionState `json:"state" gorm:"not null;size:20;default:draft;index"`
	ParticipantName  string       `json:"participant_name" gorm:"size:200"`
	ParticipantEmail string       `json:"participant_email" gorm:"size:200"`

	// Timing
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	TimeLimit int        `json:"time_limit" gorm:"default:0"` // minutes, 0 = no limit

	// Questions delivered to this session, in presentation order
	QuestionOrder datatypes.JSONSlice[uint] `json:"question_order" gorm:"type:jsonb"`

	// Scoring; TotalScore stays nil until the session is scored
	TotalScore *float64 `json:"total_score"`
	MaxScore   float64  `json:"max_score" gorm:"default:0"`
	Percentage float64  `json:"percentage" gorm:"default:0"`
	Passed     bool     `json:"passed" gorm:"default:false"`

	// Mode behaviour copied at start
	ImmediateFeedback bool              `json:"immediate_feedback" gorm:"default:false"`
	ExplanationPolicy ExplanationPolicy `json:"explanation_policy" gorm:"size:32;default:after_completion"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Quiz      *Quiz      `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Responses []Response `json:"responses,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string {
	return "quiz_sessions"
}

// Deadline returns when the session runs out of time, or nil without a limit.
func (s *Session) Deadline() *time.Time {
	if s.TimeLimit <= 0 || s.StartTime == nil {
		return nil
	}
	deadline := s.StartTime.Add(time.Duration(s.TimeLimit) * time.Minute)
	return &deadline
}

// IsOverdue reports whether an in-progress session has passed its deadline.
func (s *Session) IsOverdue(now time.Time) bool {
	if s.State != SessionInProgress {
		return false
	}
	deadline := s.Deadline()
	return deadline != nil && deadline.Before(now)
}

// Delivers reports whether the question belongs to the session's delivered set.
func (s *Session) Delivers(questionID uint) bool {
	for _, id := range s.QuestionOrder {
		if id == questionID {
			return true
		}
	}
	return false
}
