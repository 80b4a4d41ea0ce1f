package services

import (
	"encoding/json"
	"time"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/scoring"
	"gorm.io/datatypes"
)

// ===== QUIZ TYPES =====

type SetModesRequest struct {
	ModeKeys []string `json:"mode_keys" validate:"dive,required,max=50"`
}

type QuizListResponse struct {
	Quizzes []*models.Quiz `json:"quizzes"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// ===== QUESTION TYPES =====

type QuestionListResponse struct {
	Questions []*models.Question `json:"questions"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

type EvaluateRequest struct {
	QuestionID uint            `json:"question_id" validate:"required"`
	Answer     json.RawMessage `json:"answer"`
}

type EvaluateResponse struct {
	QuestionID uint    `json:"question_id"`
	Score      float64 `json:"score"`
	Points     float64 `json:"points"`
	IsCorrect  bool    `json:"is_correct"`
}

// ===== SESSION TYPES =====

type StartSessionRequest struct {
	QuizID           uint   `json:"quiz_id" validate:"required"`
	ModeKey          string `json:"mode_key" validate:"omitempty,max=50"`
	ParticipantName  string `json:"participant_name" validate:"omitempty,max=200"`
	ParticipantEmail string `json:"participant_email" validate:"omitempty,email,max=200"`
}

type SessionResponse struct {
	ID                uint                     `json:"id"`
	Token             string                   `json:"token"`
	QuizID            uint                     `json:"quiz_id"`
	ModeID            *uint                    `json:"mode_id,omitempty"`
	State             models.SessionState      `json:"state"`
	StartTime         *time.Time               `json:"start_time"`
	Deadline          *time.Time               `json:"deadline,omitempty"`
	TimeLimit         int                      `json:"time_limit"`
	QuestionOrder     []uint                   `json:"question_order"`
	MaxScore          float64                  `json:"max_score"`
	ImmediateFeedback bool                     `json:"immediate_feedback"`
	ExplanationPolicy models.ExplanationPolicy `json:"explanation_policy"`
}

type SubmitAnswerRequest struct {
	QuestionID uint            `json:"question_id" validate:"required"`
	Answer     json.RawMessage `json:"answer"`
}

type AnswerResult struct {
	SessionID   uint    `json:"session_id"`
	QuestionID  uint    `json:"question_id"`
	Score       float64 `json:"score"`
	Points      float64 `json:"points"`
	IsCorrect   bool    `json:"is_correct"`
	Explanation *string `json:"explanation,omitempty"`
}

type ResponseResult struct {
	QuestionID  uint           `json:"question_id"`
	AnswerData  datatypes.JSON `json:"answer_data"`
	Score       float64        `json:"score"`
	Points      float64        `json:"points"`
	IsCorrect   bool           `json:"is_correct"`
	AnsweredAt  time.Time      `json:"answered_at"`
	Explanation *string        `json:"explanation,omitempty"`
}

// SessionResult is the scored view of a session. Summary fields are inlined.
type SessionResult struct {
	SessionID        uint                `json:"session_id"`
	Token            string              `json:"token"`
	QuizID           uint                `json:"quiz_id"`
	State            models.SessionState `json:"state"`
	ParticipantName  string              `json:"participant_name"`
	ParticipantEmail string              `json:"participant_email"`
	StartTime        *time.Time          `json:"start_time"`
	EndTime          *time.Time          `json:"end_time"`
	Scored           bool                `json:"scored"`
	scoring.Summary
	Responses []ResponseResult `json:"responses"`
}

func newSessionResponse(session *models.Session) *SessionResponse {
	return &SessionResponse{
		ID:                session.ID,
		Token:             session.Token,
		QuizID:            session.QuizID,
		ModeID:            session.ModeID,
		State:             session.State,
		StartTime:         session.StartTime,
		Deadline:          session.Deadline(),
		TimeLimit:         session.TimeLimit,
		QuestionOrder:     []uint(session.QuestionOrder),
		MaxScore:          session.MaxScore,
		ImmediateFeedback: session.ImmediateFeedback,
		ExplanationPolicy: session.ExplanationPolicy,
	}
}

// answerJSON stores an absent answer as JSON null
func answerJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(raw)
}
