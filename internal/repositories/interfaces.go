package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"gorm.io/gorm"
)

// Repository groups the per-aggregate repositories so services can share one
// handle and run several writes in a transaction.
type Repository interface {
	Quiz() QuizRepository
	Mode() ModeRepository
	Question() QuestionRepository
	Session() SessionRepository
	Response() ResponseRepository
	Audit() AuditRepository

	// WithTransaction runs fn against repositories bound to one transaction.
	// The transaction is rolled back when fn returns an error.
	WithTransaction(ctx context.Context, fn func(tx Repository) error) error
}

// ErrNoRowsUpdated is returned when a conditional update matched nothing,
// usually because another request changed the row first.
var ErrNoRowsUpdated = errors.New("no rows updated")

// IsNotFoundError reports whether err means the requested row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	Published *bool  `json:"published"`
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "title"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	QuizID *uint                `json:"quiz_id"`
	Type   *models.QuestionType `json:"type"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

type SessionFilters struct {
	QuizID   *uint                `json:"quiz_id"`
	State    *models.SessionState `json:"state"`
	DateFrom *time.Time           `json:"date_from"`
	DateTo   *time.Time           `json:"date_to"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
}

// ===== SHARED HELPER STRUCTS =====

// SessionScore is the aggregate written back when a session is scored.
type SessionScore struct {
	TotalScore float64
	MaxScore   float64
	Percentage float64
	Passed     bool
}

// ResponseScore updates the stored score of one response.
type ResponseScore struct {
	ID        uint
	Score     float64
	IsCorrect bool
}

// ===== SHARED STATISTICS STRUCTS =====

type QuizResultStats struct {
	CompletedSessions int64   `json:"completed_sessions"`
	PassedSessions    int64   `json:"passed_sessions"`
	AverageScore      float64 `json:"average_score"`
	AveragePercentage float64 `json:"average_percentage"`
	MinPercentage     float64 `json:"min_percentage"`
	MaxPercentage     float64 `json:"max_percentage"`
	PassRate          float64 `json:"pass_rate"`
}

// WithPassRate derives PassRate (percent) from the completed and passed counts.
func (s *QuizResultStats) WithPassRate() *QuizResultStats {
	s.PassRate = 0
	if s.CompletedSessions > 0 {
		s.PassRate = float64(s.PassedSessions) / float64(s.CompletedSessions) * 100
	}
	return s
}
