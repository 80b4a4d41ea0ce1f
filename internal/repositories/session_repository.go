package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
)

// SessionRepository interface for quiz session operations
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uint) (*models.Session, error)
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	GetByIDWithResponses(ctx context.Context, id uint) (*models.Session, error)
	List(ctx context.Context, filters SessionFilters) ([]*models.Session, int64, error)

	// State management
	MarkCompleted(ctx context.Context, id uint, endTime time.Time, score SessionScore) error
	UpdateScore(ctx context.Context, id uint, score SessionScore) error
	MarkExpired(ctx context.Context, id uint, endTime time.Time) error

	// Sweeper support
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]*models.Session, error)

	CountByQuizAndEmail(ctx context.Context, quizID uint, email string) (int64, error)
	GetQuizResultStats(ctx context.Context, quizID uint) (*QuizResultStats, error)
}

// ResponseRepository interface for participant responses
type ResponseRepository interface {
	// Upsert inserts the response or overwrites the one stored for the same
	// session and question.
	Upsert(ctx context.Context, response *models.Response) error
	GetBySession(ctx context.Context, sessionID uint) ([]models.Response, error)
	GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.Response, error)
	UpdateScores(ctx context.Context, scores []ResponseScore) error
}
