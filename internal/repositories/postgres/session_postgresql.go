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

type SessionPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.Session) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get session %d: %w", id, err)
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByIDWithResponses(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&session, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get session %d: %w", id, err)
	}
	return &session, nil
}

func (s *SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Session{})
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.State != nil {
		query = query.Where("state = ?", *filters.State)
	}
	if filters.DateFrom != nil {
		query = query.Where("start_time >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("start_time <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query = s.helpers.ApplyPaginationAndSort(query, "start_time", "desc", filters.Limit, filters.Offset, "start_time")

	var sessions []*models.Session
	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, total, nil
}

// MarkCompleted stores the final score and closes the session. It only
// applies to sessions that are not completed yet and returns
// ErrNoRowsUpdated otherwise.
func (s *SessionPostgreSQL) MarkCompleted(ctx context.Context, id uint, endTime time.Time, score repositories.SessionScore) error {
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND state <> ?", id, models.SessionCompleted).
		Updates(map[string]interface{}{
			"state":       models.SessionCompleted,
			"end_time":    endTime,
			"total_score": score.TotalScore,
			"max_score":   score.MaxScore,
			"percentage":  score.Percentage,
			"passed":      score.Passed,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to complete session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to complete session %d: %w", id, repositories.ErrNoRowsUpdated)
	}
	return nil
}

func (s *SessionPostgreSQL) UpdateScore(ctx context.Context, id uint, score repositories.SessionScore) error {
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_score": score.TotalScore,
			"max_score":   score.MaxScore,
			"percentage":  score.Percentage,
			"passed":      score.Passed,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update session score: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update session %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// MarkExpired moves an in-progress session to expired
func (s *SessionPostgreSQL) MarkExpired(ctx context.Context, id uint, endTime time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND state = ?", id, models.SessionInProgress).
		Updates(map[string]interface{}{
			"state":      models.SessionExpired,
			"end_time":   endTime,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to expire session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to expire session %d: %w", id, repositories.ErrNoRowsUpdated)
	}
	return nil
}

// ListOverdue returns in-progress sessions whose time limit ran out before now
func (s *SessionPostgreSQL) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*models.Session, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var sessions []*models.Session
	err := s.db.WithContext(ctx).
		Where("state = ? AND time_limit > 0 AND start_time IS NOT NULL", models.SessionInProgress).
		Where("start_time + time_limit * INTERVAL '1 minute' < ?", now).
		Order("start_time ASC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue sessions: %w", err)
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) CountByQuizAndEmail(ctx context.Context, quizID uint, email string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("quiz_id = ? AND LOWER(participant_email) = LOWER(?)", quizID, email).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

func (s *SessionPostgreSQL) GetQuizResultStats(ctx context.Context, quizID uint) (*repositories.QuizResultStats, error) {
	stats := &repositories.QuizResultStats{}

	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Select(`COUNT(*),
			COALESCE(SUM(CASE WHEN passed THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(total_score), 0),
			COALESCE(AVG(percentage), 0),
			COALESCE(MIN(percentage), 0),
			COALESCE(MAX(percentage), 0)`).
		Where("quiz_id = ? AND state = ?", quizID, models.SessionCompleted).
		Row().
		Scan(&stats.CompletedSessions, &stats.PassedSessions, &stats.AverageScore,
			&stats.AveragePercentage, &stats.MinPercentage, &stats.MaxPercentage)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz result stats: %w", err)
	}

	return stats.WithPassRate(), nil
}
