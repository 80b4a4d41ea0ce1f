package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet  = "Results"
	summarySheet  = "Summary"
	exportPageLen = 500
)

type exportService struct {
	repo   repositories.Repository
	logger *ServiceLogger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: NewServiceLogger(logger, LogConfig{Service: "quiz-scoring-service", Component: "export"}),
	}
}

// ExportQuizResults renders one row per completed session plus a summary sheet
func (s *exportService) ExportQuizResults(ctx context.Context, quizID uint) (data []byte, err error) {
	op := s.logger.WithOperation(ctx, "export_quiz_results")
	defer func() { op.LogResult(quizID, "quiz", err) }()

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	sessions, err := s.completedSessions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Session().GetQuizResultStats(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get result stats: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []interface{}{
		"Token", "Participant", "Email", "Total Score", "Max Score", "Percentage", "Passed", "Completed At",
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for i, session := range sessions {
		row := []interface{}{
			session.Token,
			session.ParticipantName,
			session.ParticipantEmail,
			totalScore(session),
			session.MaxScore,
			session.Percentage,
			passLabel(session.Passed),
			"",
		}
		if session.EndTime != nil {
			row[7] = session.EndTime.Format("2006-01-02 15:04:05")
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Quiz", quiz.Title},
		{"Passing Score", quiz.PassingScore},
		{"Completed Sessions", stats.CompletedSessions},
		{"Passed Sessions", stats.PassedSessions},
		{"Average Score", stats.AverageScore},
		{"Average Percentage", stats.AveragePercentage},
		{"Min Percentage", stats.MinPercentage},
		{"Max Percentage", stats.MaxPercentage},
		{"Pass Rate", stats.PassRate},
	}
	for i, row := range summary {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *exportService) completedSessions(ctx context.Context, quizID uint) ([]*models.Session, error) {
	state := models.SessionCompleted
	filters := repositories.SessionFilters{QuizID: &quizID, State: &state, Limit: exportPageLen}

	var all []*models.Session
	for {
		page, total, err := s.repo.Session().List(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		all = append(all, page...)
		filters.Offset += len(page)
		if len(page) < exportPageLen || int64(filters.Offset) >= total {
			return all, nil
		}
	}
}

func totalScore(session *models.Session) float64 {
	if session.TotalScore == nil {
		return 0
	}
	return *session.TotalScore
}

func passLabel(passed bool) string {
	if passed {
		return "Pass"
	}
	return "Fail"
}
