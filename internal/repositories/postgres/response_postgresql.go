package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

// Upsert relies on the unique (session_id, question_id) index; the last
// submission wins.
func (r *ResponsePostgreSQL) Upsert(ctx context.Context, response *models.Response) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer_data", "score", "is_correct", "answered_at", "updated_at"}),
		}).
		Create(response).Error
	if err != nil {
		return fmt.Errorf("failed to save response: %w", err)
	}
	return nil
}

func (r *ResponsePostgreSQL) GetBySession(ctx context.Context, sessionID uint) ([]models.Response, error) {
	var responses []models.Response
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get responses for session %d: %w", sessionID, err)
	}
	return responses, nil
}

func (r *ResponsePostgreSQL) GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.Response, error) {
	var response models.Response
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&response).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	return &response, nil
}

// UpdateScores writes rescored values back in one transaction
func (r *ResponsePostgreSQL) UpdateScores(ctx context.Context, scores []repositories.ResponseScore) error {
	if len(scores) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range scores {
			err := tx.Model(&models.Response{}).
				Where("id = ?", s.ID).
				Updates(map[string]interface{}{
					"score":      s.Score,
					"is_correct": s.IsCorrect,
					"updated_at": now,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update response %d: %w", s.ID, err)
			}
		}
		return nil
	})
}
