package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "quiz-scoring-service"
	eventVersion = "1.0"
)

// EventType represents the kinds of scoring events the service emits
type EventType string

const (
	EventResponseScored   EventType = "response.scored"
	EventSessionCompleted EventType = "session.completed"
	EventSessionRegraded  EventType = "session.regraded"
	EventSessionExpired   EventType = "session.expired"
)

// Event is the envelope every published message carries
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

type ResponseScoredEvent struct {
	SessionID  uint    `json:"session_id"`
	QuestionID uint    `json:"question_id"`
	Score      float64 `json:"score"`
	IsCorrect  bool    `json:"is_correct"`
}

// SessionScoredEvent is the payload of session.completed and session.regraded
type SessionScoredEvent struct {
	SessionID  uint    `json:"session_id"`
	QuizID     uint    `json:"quiz_id"`
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

type SessionExpiredEvent struct {
	SessionID uint      `json:"session_id"`
	QuizID    uint      `json:"quiz_id"`
	ExpiredAt time.Time `json:"expired_at"`
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewResponseScoredEvent(sessionID, questionID uint, score float64, isCorrect bool) *Event {
	return newEvent(EventResponseScored, ResponseScoredEvent{
		SessionID:  sessionID,
		QuestionID: questionID,
		Score:      score,
		IsCorrect:  isCorrect,
	})
}

func NewSessionCompletedEvent(payload SessionScoredEvent) *Event {
	return newEvent(EventSessionCompleted, payload)
}

func NewSessionRegradedEvent(payload SessionScoredEvent) *Event {
	return newEvent(EventSessionRegraded, payload)
}

func NewSessionExpiredEvent(sessionID, quizID uint, expiredAt time.Time) *Event {
	return newEvent(EventSessionExpired, SessionExpiredEvent{
		SessionID: sessionID,
		QuizID:    quizID,
		ExpiredAt: expiredAt,
	})
}
