package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// Create inserts the quiz row only; questions and modes are attached separately
func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	if err := q.db.WithContext(ctx).Omit(clause.Associations).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get quiz %d: %w", id, err)
	}
	return &quiz, nil
}

// GetByIDWithDetails loads modes and the questions ordered by sequence, with
// every child the scoring engine needs.
func (q *QuizPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	query := q.db.WithContext(ctx).
		Preload("Modes", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("id ASC")
		}).
		Preload("Questions", orderBySequence)
	query = preloadQuestionChildren(query, "Questions.")

	if err := query.First(&quiz, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get quiz %d: %w", id, err)
	}

	quiz.TotalPoints = models.TotalQuestionPoints(quiz.Questions)
	return &quiz, nil
}

func (q *QuizPostgreSQL) Update(ctx context.Context, quiz *models.Quiz) error {
	if err := q.db.WithContext(ctx).Omit(clause.Associations).Save(quiz).Error; err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	return nil
}

// Delete soft deletes a quiz
func (q *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Quiz{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete quiz: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete quiz %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (q *QuizPostgreSQL) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Quiz{})

	if filters.Published != nil {
		query = query.Where("published = ?", *filters.Published)
	}
	if filters.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filters.Search)
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	query = q.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset, "created_at", "title")

	var quizzes []*models.Quiz
	if err := query.Find(&quizzes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, total, nil
}

// SetModes replaces the modes a quiz can be started in
func (q *QuizPostgreSQL) SetModes(ctx context.Context, quizID uint, modeIDs []uint) error {
	modes := make([]models.QuizMode, 0, len(modeIDs))
	if len(modeIDs) > 0 {
		if err := q.db.WithContext(ctx).Where("id IN ?", modeIDs).Find(&modes).Error; err != nil {
			return fmt.Errorf("failed to load quiz modes: %w", err)
		}
	}
	quiz := &models.Quiz{ID: quizID}
	if err := q.db.WithContext(ctx).Model(quiz).Association("Modes").Replace(modes); err != nil {
		return fmt.Errorf("failed to set quiz modes: %w", err)
	}
	return nil
}

func (q *QuizPostgreSQL) HasMode(ctx context.Context, quizID, modeID uint) (bool, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Table("quiz_mode_rel").
		Where("quiz_id = ? AND quiz_mode_id = ?", quizID, modeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check quiz mode: %w", err)
	}
	return count > 0, nil
}

func (q *QuizPostgreSQL) ExistsBySlug(ctx context.Context, slug string, excludeID *uint) (bool, error) {
	query := q.db.WithContext(ctx).Model(&models.Quiz{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check quiz slug: %w", err)
	}
	return count > 0, nil
}
