package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
)

// QuizRepository interface for quiz-specific operations
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Quiz, error) // Include modes and questions with their children
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error // Soft delete
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)

	// Mode assignment
	SetModes(ctx context.Context, quizID uint, modeIDs []uint) error
	HasMode(ctx context.Context, quizID, modeID uint) (bool, error)

	ExistsBySlug(ctx context.Context, slug string, excludeID *uint) (bool, error)
}

// ModeRepository interface for quiz mode operations
type ModeRepository interface {
	Create(ctx context.Context, mode *models.QuizMode) error
	GetByID(ctx context.Context, id uint) (*models.QuizMode, error)
	GetByKey(ctx context.Context, key string) (*models.QuizMode, error)
	List(ctx context.Context, activeOnly bool) ([]*models.QuizMode, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.QuizMode, error)
}
