package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
)

// QuizService manages quizzes and the modes they can be taken in
type QuizService interface {
	Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error)
	Get(ctx context.Context, id uint) (*models.Quiz, error)
	Update(ctx context.Context, id uint, quiz *models.Quiz) (*models.Quiz, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.QuizFilters) (*QuizListResponse, error)
	SetModes(ctx context.Context, quizID uint, req *SetModesRequest) (*models.Quiz, error)
	GetResultStats(ctx context.Context, quizID uint) (*repositories.QuizResultStats, error)

	CreateMode(ctx context.Context, mode *models.QuizMode) (*models.QuizMode, error)
	ListModes(ctx context.Context, activeOnly bool) ([]*models.QuizMode, error)
}

// QuestionService manages questions and previews their scoring
type QuestionService interface {
	Create(ctx context.Context, question *models.Question) (*models.Question, error)
	Get(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, id uint, question *models.Question) (*models.Question, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)

	// Evaluate scores an answer without persisting anything
	Evaluate(ctx context.Context, req *EvaluateRequest) (*EvaluateResponse, error)
}

// SessionService runs quiz sessions from start to scored result
type SessionService interface {
	Start(ctx context.Context, req *StartSessionRequest) (*SessionResponse, error)
	SubmitAnswer(ctx context.Context, token string, req *SubmitAnswerRequest) (*AnswerResult, error)
	Complete(ctx context.Context, token string) (*SessionResult, error)
	GetResult(ctx context.Context, token string) (*SessionResult, error)

	// Regrade rescores a completed session against the current questions
	Regrade(ctx context.Context, sessionID uint) (*SessionResult, error)
	RegradeHistory(ctx context.Context, sessionID uint) ([]*models.AuditLog, error)

	// ExpireOverdue moves in-progress sessions past their deadline to expired
	// and returns how many were expired
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
	RunExpirySweeper(ctx context.Context, interval time.Duration)
}

// ExportService renders quiz results for download
type ExportService interface {
	ExportQuizResults(ctx context.Context, quizID uint) ([]byte, error)
}
