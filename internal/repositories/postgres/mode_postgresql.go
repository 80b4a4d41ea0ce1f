package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"gorm.io/gorm"
)

type ModePostgreSQL struct {
	db *gorm.DB
}

func NewModePostgreSQL(db *gorm.DB) repositories.ModeRepository {
	return &ModePostgreSQL{db: db}
}

func (m *ModePostgreSQL) Create(ctx context.Context, mode *models.QuizMode) error {
	if err := m.db.WithContext(ctx).Create(mode).Error; err != nil {
		return fmt.Errorf("failed to create quiz mode: %w", err)
	}
	return nil
}

func (m *ModePostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizMode, error) {
	var mode models.QuizMode
	if err := m.db.WithContext(ctx).First(&mode, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get quiz mode %d: %w", id, err)
	}
	return &mode, nil
}

func (m *ModePostgreSQL) GetByKey(ctx context.Context, key string) (*models.QuizMode, error) {
	var mode models.QuizMode
	if err := m.db.WithContext(ctx).Where(&models.QuizMode{Key: key}).First(&mode).Error; err != nil {
		return nil, fmt.Errorf("failed to get quiz mode %q: %w", key, err)
	}
	return &mode, nil
}

func (m *ModePostgreSQL) List(ctx context.Context, activeOnly bool) ([]*models.QuizMode, error) {
	query := m.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var modes []*models.QuizMode
	if err := query.Find(&modes).Error; err != nil {
		return nil, fmt.Errorf("failed to list quiz modes: %w", err)
	}
	return modes, nil
}

func (m *ModePostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.QuizMode, error) {
	var modes []*models.QuizMode
	if len(ids) == 0 {
		return modes, nil
	}
	if err := m.db.WithContext(ctx).Where("id IN ?", ids).Find(&modes).Error; err != nil {
		return nil, fmt.Errorf("failed to get quiz modes: %w", err)
	}
	return modes, nil
}
