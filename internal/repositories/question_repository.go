package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
)

// QuestionRepository interface for question-specific operations.
// Reads always load the owned children needed for scoring.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error // Replaces owned children
	Delete(ctx context.Context, id uint) error                   // Removes owned children

	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error)
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
}
