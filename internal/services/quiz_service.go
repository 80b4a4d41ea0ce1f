package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/validator"
)

type quizService struct {
	repo      repositories.Repository
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewQuizService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) QuizService {
	return &quizService{
		repo:      repo,
		logger:    NewServiceLogger(logger, LogConfig{Service: "quiz-scoring-service", Component: "quiz"}),
		validator: validator,
	}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL slug from a title
func slugify(title string) string {
	return strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

func (s *quizService) Create(ctx context.Context, quiz *models.Quiz) (created *models.Quiz, err error) {
	op := s.logger.WithOperation(ctx, "create_quiz")
	defer func() { op.LogResult(quiz.ID, "quiz", err) }()

	if quiz.Slug == "" {
		quiz.Slug = slugify(quiz.Title)
	}
	if err := s.validator.Validate(quiz); err != nil {
		return nil, err
	}

	exists, err := s.repo.Quiz().ExistsBySlug(ctx, quiz.Slug, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return nil, ErrQuizDuplicateSlug
	}

	quiz.ID = 0
	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	op.LogAudit(AuditEventCreate, quiz.ID, "quiz", nil, quiz.Slug)

	return quiz, nil
}

func (s *quizService) Get(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (s *quizService) Update(ctx context.Context, id uint, quiz *models.Quiz) (updated *models.Quiz, err error) {
	op := s.logger.WithOperation(ctx, "update_quiz")
	defer func() { op.LogResult(id, "quiz", err) }()

	existing, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	quiz.ID = id
	quiz.CreatedAt = existing.CreatedAt
	if quiz.Slug == "" {
		quiz.Slug = existing.Slug
	}
	if err := s.validator.Validate(quiz); err != nil {
		return nil, err
	}
	if quiz.Slug != existing.Slug {
		exists, err := s.repo.Quiz().ExistsBySlug(ctx, quiz.Slug, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		if exists {
			return nil, ErrQuizDuplicateSlug
		}
	}

	if err := s.repo.Quiz().Update(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}
	op.LogAudit(AuditEventUpdate, id, "quiz", existing.PassingScore, quiz.PassingScore)

	return s.Get(ctx, id)
}

func (s *quizService) Delete(ctx context.Context, id uint) (err error) {
	op := s.logger.WithOperation(ctx, "delete_quiz")
	defer func() { op.LogResult(id, "quiz", err) }()

	if err := s.repo.Quiz().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	op.LogAudit(AuditEventDelete, id, "quiz", nil, nil)
	return nil
}

func (s *quizService) List(ctx context.Context, filters repositories.QuizFilters) (*QuizListResponse, error) {
	quizzes, total, err := s.repo.Quiz().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return &QuizListResponse{
		Quizzes: quizzes,
		Total:   total,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}, nil
}

// SetModes replaces the modes a quiz can be taken in
func (s *quizService) SetModes(ctx context.Context, quizID uint, req *SetModesRequest) (quiz *models.Quiz, err error) {
	op := s.logger.WithOperation(ctx, "set_quiz_modes")
	defer func() { op.LogResult(quizID, "quiz", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.Quiz().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	modeIDs := make([]uint, 0, len(req.ModeKeys))
	seen := make(map[uint]bool, len(req.ModeKeys))
	for _, key := range req.ModeKeys {
		mode, err := s.repo.Mode().GetByKey(ctx, key)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, fmt.Errorf("%w: %s", ErrModeNotFound, key)
			}
			return nil, fmt.Errorf("failed to get mode: %w", err)
		}
		if !seen[mode.ID] {
			seen[mode.ID] = true
			modeIDs = append(modeIDs, mode.ID)
		}
	}

	if err := s.repo.Quiz().SetModes(ctx, quizID, modeIDs); err != nil {
		return nil, fmt.Errorf("failed to set quiz modes: %w", err)
	}
	op.LogAudit(AuditEventUpdate, quizID, "quiz", nil, req.ModeKeys)

	return s.Get(ctx, quizID)
}

func (s *quizService) GetResultStats(ctx context.Context, quizID uint) (*repositories.QuizResultStats, error) {
	if _, err := s.repo.Quiz().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	stats, err := s.repo.Session().GetQuizResultStats(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get result stats: %w", err)
	}
	return stats, nil
}

// ===== MODES =====

func (s *quizService) CreateMode(ctx context.Context, mode *models.QuizMode) (created *models.QuizMode, err error) {
	op := s.logger.WithOperation(ctx, "create_mode")
	defer func() { op.LogResult(mode.ID, "quiz_mode", err) }()

	if mode.ExplanationPolicy == "" {
		mode.ExplanationPolicy = models.ExplanationAfterCompletion
	}
	if err := s.validator.Validate(mode); err != nil {
		return nil, err
	}

	if _, err := s.repo.Mode().GetByKey(ctx, mode.Key); err == nil {
		return nil, ErrModeDuplicateKey
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check mode key: %w", err)
	}

	mode.ID = 0
	if err := s.repo.Mode().Create(ctx, mode); err != nil {
		return nil, fmt.Errorf("failed to create mode: %w", err)
	}
	return mode, nil
}

func (s *quizService) ListModes(ctx context.Context, activeOnly bool) ([]*models.QuizMode, error) {
	modes, err := s.repo.Mode().List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list modes: %w", err)
	}
	return modes, nil
}
