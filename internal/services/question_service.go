package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/scoring"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/validator"
)

type questionService struct {
	repo      repositories.Repository
	engine    *scoring.Engine
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, engine *scoring.Engine, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		engine:    engine,
		logger:    NewServiceLogger(logger, LogConfig{Service: "quiz-scoring-service", Component: "question"}),
		validator: validator,
	}
}

func (s *questionService) Create(ctx context.Context, question *models.Question) (created *models.Question, err error) {
	op := s.logger.WithOperation(ctx, "create_question")
	defer func() { op.LogResult(question.ID, "question", err) }()

	if err := s.validator.Validate(question); err != nil {
		return nil, err
	}
	if err := s.ensureQuiz(ctx, question.QuizID); err != nil {
		return nil, err
	}

	question.ID = 0
	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	op.LogAudit(AuditEventCreate, question.ID, "question", nil, question.Type)

	return s.Get(ctx, question.ID)
}

func (s *questionService) Get(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

// Update replaces the question and all of its owned children
func (s *questionService) Update(ctx context.Context, id uint, question *models.Question) (updated *models.Question, err error) {
	op := s.logger.WithOperation(ctx, "update_question")
	defer func() { op.LogResult(id, "question", err) }()

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	question.ID = id
	if question.QuizID == 0 {
		question.QuizID = existing.QuizID
	}
	if err := s.validator.Validate(question); err != nil {
		return nil, err
	}
	if question.QuizID != existing.QuizID {
		if err := s.ensureQuiz(ctx, question.QuizID); err != nil {
			return nil, err
		}
	}
	question.CreatedAt = existing.CreatedAt

	if err := s.repo.Question().Update(ctx, question); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	op.LogAudit(AuditEventUpdate, id, "question", existing.Points, question.Points)

	return s.Get(ctx, id)
}

func (s *questionService) Delete(ctx context.Context, id uint) (err error) {
	op := s.logger.WithOperation(ctx, "delete_question")
	defer func() { op.LogResult(id, "question", err) }()

	if err := s.repo.Question().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	op.LogAudit(AuditEventDelete, id, "question", nil, nil)
	return nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	questions, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return &QuestionListResponse{
		Questions: questions,
		Total:     total,
		Limit:     filters.Limit,
		Offset:    filters.Offset,
	}, nil
}

func (s *questionService) Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	question, err := s.Get(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}

	score := s.engine.Evaluate(question, answerJSON(req.Answer))
	return &EvaluateResponse{
		QuestionID: question.ID,
		Score:      score,
		Points:     question.Points,
		IsCorrect:  scoring.IsCorrect(score, question.Points),
	}, nil
}

func (s *questionService) ensureQuiz(ctx context.Context, quizID uint) error {
	if quizID == 0 {
		return ValidationErrors{*NewValidationError("quiz_id", "is required", quizID)}
	}
	if _, err := s.repo.Quiz().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}
	return nil
}
