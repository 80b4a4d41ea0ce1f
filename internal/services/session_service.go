package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/cache"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/events"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/scoring"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/utils"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/validator"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	expiryBatchSize    = 100
	auditTargetSession = "session"
)

type sessionService struct {
	repo      repositories.Repository
	engine    *scoring.Engine
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    *ServiceLogger
	validator *validator.Validator
	resultTTL time.Duration
	now       func() time.Time
}

func NewSessionService(
	repo repositories.Repository,
	engine *scoring.Engine,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	logger *slog.Logger,
	validator *validator.Validator,
	resultTTL time.Duration,
) SessionService {
	return &sessionService{
		repo:      repo,
		engine:    engine,
		publisher: publisher,
		cache:     cacheService,
		logger:    NewServiceLogger(logger, LogConfig{Service: "quiz-scoring-service", Component: "session"}),
		validator: validator,
		resultTTL: resultTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ===== SESSION LIFECYCLE =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest) (resp *SessionResponse, err error) {
	op := s.logger.WithOperation(ctx, "start_session")
	defer func() { op.LogResult(req.QuizID, "quiz", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByIDWithDetails(ctx, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if !quiz.Published {
		return nil, ErrQuizNotPublished
	}
	if len(quiz.Questions) == 0 {
		return nil, ErrQuizHasNoQuestion
	}

	mode, err := s.resolveMode(ctx, quiz.ID, req.ModeKey)
	if err != nil {
		return nil, err
	}

	if quiz.MaxAttempts > 0 && req.ParticipantEmail != "" {
		attempts, err := s.repo.Session().CountByQuizAndEmail(ctx, quiz.ID, req.ParticipantEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to count attempts: %w", err)
		}
		if attempts >= int64(quiz.MaxAttempts) {
			return nil, NewBusinessRuleError("max_attempts", "maximum attempts exceeded", map[string]interface{}{
				"quiz_id":      quiz.ID,
				"max_attempts": quiz.MaxAttempts,
				"attempts":     attempts,
			})
		}
	}

	delivered := selectQuestions(quiz, mode)
	order := make([]uint, len(delivered))
	for i, q := range delivered {
		order[i] = q.ID
	}

	startTime := s.now()
	session := &models.Session{
		QuizID:            quiz.ID,
		Token:             uuid.NewString(),
		State:             models.SessionInProgress,
		ParticipantName:   req.ParticipantName,
		ParticipantEmail:  req.ParticipantEmail,
		StartTime:         &startTime,
		TimeLimit:         quiz.TimeLimit,
		QuestionOrder:     order,
		MaxScore:          models.TotalQuestionPoints(delivered),
		ExplanationPolicy: models.ExplanationAfterCompletion,
	}
	if mode != nil {
		session.ModeID = &mode.ID
		session.ImmediateFeedback = mode.ImmediateFeedback
		session.ExplanationPolicy = mode.ExplanationPolicy
		if mode.TimeLimitEnforced && mode.TimeLimitMinutes > 0 {
			session.TimeLimit = mode.TimeLimitMinutes
		}
	}

	if err := s.repo.Session().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Slog().InfoContext(ctx, "Quiz session started",
		"session_id", session.ID,
		"quiz_id", quiz.ID,
		"questions", len(order),
		"time_limit", session.TimeLimit)

	return newSessionResponse(session), nil
}

// resolveMode returns nil when no mode was requested. A requested mode must
// exist, be active and be assigned to the quiz.
func (s *sessionService) resolveMode(ctx context.Context, quizID uint, key string) (*models.QuizMode, error) {
	if key == "" {
		return nil, nil
	}
	mode, err := s.repo.Mode().GetByKey(ctx, key)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrModeNotFound
		}
		return nil, fmt.Errorf("failed to get mode: %w", err)
	}
	if !mode.Active {
		return nil, ErrModeNotAvailable
	}
	assigned, err := s.repo.Quiz().HasMode(ctx, quizID, mode.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check quiz mode: %w", err)
	}
	if !assigned {
		return nil, ErrModeNotAvailable
	}
	return mode, nil
}

// selectQuestions picks the delivered questions in presentation order:
// shuffled for randomized quizzes and adaptive modes, then cut to the
// question limit.
func selectQuestions(quiz *models.Quiz, mode *models.QuizMode) []models.Question {
	questions := make([]models.Question, len(quiz.Questions))
	copy(questions, quiz.Questions)

	if quiz.RandomizeQuestions || (mode != nil && mode.IsAdaptive) {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	limit := quiz.QuestionLimit
	if limit == 0 && mode != nil {
		limit = mode.DefaultQuestionLimit
	}
	if limit > 0 && limit < len(questions) {
		questions = questions[:limit]
	}
	return questions
}

func (s *sessionService) SubmitAnswer(ctx context.Context, token string, req *SubmitAnswerRequest) (result *AnswerResult, err error) {
	op := s.logger.WithOperation(ctx, "submit_answer")
	defer func() { op.LogResult(req.QuestionID, "question", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if session.IsOverdue(now) {
		s.expire(ctx, session, now)
		return nil, ErrSessionExpired
	}
	if session.State != models.SessionInProgress {
		return nil, ErrSessionNotActive
	}
	if !session.Delivers(req.QuestionID) {
		return nil, ErrQuestionNotInSession
	}

	question, err := s.repo.Question().GetByID(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	answer := answerJSON(req.Answer)
	score := s.engine.Evaluate(question, answer)
	response := &models.Response{
		SessionID:  session.ID,
		QuestionID: question.ID,
		AnswerData: answer,
		Score:      score,
		IsCorrect:  scoring.IsCorrect(score, question.Points),
		AnsweredAt: now,
		UpdatedAt:  now,
	}
	if err := s.repo.Response().Upsert(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	s.publish(ctx, events.NewResponseScoredEvent(session.ID, question.ID, score, response.IsCorrect))

	result = &AnswerResult{
		SessionID:  session.ID,
		QuestionID: question.ID,
		Score:      score,
		Points:     question.Points,
		IsCorrect:  response.IsCorrect,
	}
	if session.ImmediateFeedback && explainsOnAnswer(session.ExplanationPolicy) {
		result.Explanation = question.Explanation
	}
	return result, nil
}

func explainsOnAnswer(policy models.ExplanationPolicy) bool {
	return policy == models.ExplanationImmediate || policy == models.ExplanationAfterAnswer
}

// Complete closes the session and scores it. A session that is already
// completed keeps its stored result.
func (s *sessionService) Complete(ctx context.Context, token string) (result *SessionResult, err error) {
	op := s.logger.WithOperation(ctx, "complete_session")
	var sessionID uint
	defer func() { op.LogResult(sessionID, "session", err) }()

	session, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	sessionID = session.ID

	switch session.State {
	case models.SessionCompleted:
		return s.GetResult(ctx, token)
	case models.SessionInProgress, models.SessionExpired:
	default:
		return nil, ErrSessionNotActive
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, session.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	endTime := s.now()
	var summary scoring.Summary
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if session.TotalScore != nil {
			summary = storedSummary(session)
		} else {
			var err error
			if summary, err = s.rescore(ctx, tx, session, quiz.PassingScore); err != nil {
				return err
			}
		}
		return tx.Session().MarkCompleted(ctx, session.ID, endTime, repositories.SessionScore(summary))
	})
	if errors.Is(err, repositories.ErrNoRowsUpdated) {
		// completed concurrently; the stored result stands
		return s.GetResult(ctx, token)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	s.publish(ctx, events.NewSessionCompletedEvent(scoredPayload(session, summary)))

	return s.GetResult(ctx, token)
}

// Regrade rescores every response of a completed session against the live
// question definitions.
func (s *sessionService) Regrade(ctx context.Context, sessionID uint) (result *SessionResult, err error) {
	op := s.logger.WithOperation(ctx, "regrade_session")
	defer func() { op.LogResult(sessionID, "session", err) }()

	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.State != models.SessionCompleted {
		return nil, ErrSessionNotCompleted
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, session.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	previous := storedSummary(session)
	var summary scoring.Summary
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		if summary, err = s.rescore(ctx, tx, session, quiz.PassingScore); err != nil {
			return err
		}
		if err := tx.Session().UpdateScore(ctx, session.ID, repositories.SessionScore(summary)); err != nil {
			return err
		}
		return tx.Audit().Create(ctx, regradeAudit(ctx, session.ID, previous, summary))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to regrade session: %w", err)
	}

	if err := s.cache.Delete(ctx, cache.SessionResultKey(session.Token)); err != nil {
		s.logger.Slog().WarnContext(ctx, "Failed to invalidate cached result", "session_id", session.ID, "error", err)
	}
	op.LogAudit(AuditEventRegrade, session.ID, "session", previous, summary)
	s.publish(ctx, events.NewSessionRegradedEvent(scoredPayload(session, summary)))

	return s.GetResult(ctx, session.Token)
}

func (s *sessionService) RegradeHistory(ctx context.Context, sessionID uint) ([]*models.AuditLog, error) {
	if _, err := s.repo.Session().GetByID(ctx, sessionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	entries, err := s.repo.Audit().ListByTarget(ctx, auditTargetSession, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get regrade history: %w", err)
	}
	return entries, nil
}

// rescore recomputes and stores every response score of the session and
// returns the new aggregate.
func (s *sessionService) rescore(ctx context.Context, tx repositories.Repository, session *models.Session, passingScore float64) (scoring.Summary, error) {
	delivered, err := s.deliveredQuestions(ctx, tx, session)
	if err != nil {
		return scoring.Summary{}, err
	}
	responses, err := tx.Response().GetBySession(ctx, session.ID)
	if err != nil {
		return scoring.Summary{}, fmt.Errorf("failed to get responses: %w", err)
	}

	scored, summary := s.engine.Rescore(delivered, responses, passingScore)

	var changed []repositories.ResponseScore
	for i, r := range scored {
		if r.Score != responses[i].Score || r.IsCorrect != responses[i].IsCorrect {
			changed = append(changed, repositories.ResponseScore{ID: r.ID, Score: r.Score, IsCorrect: r.IsCorrect})
		}
	}
	if len(changed) > 0 {
		if err := tx.Response().UpdateScores(ctx, changed); err != nil {
			return scoring.Summary{}, fmt.Errorf("failed to update response scores: %w", err)
		}
	}
	return summary, nil
}

// deliveredQuestions loads the session's questions in presentation order.
// Questions deleted since the session started are skipped.
func (s *sessionService) deliveredQuestions(ctx context.Context, repo repositories.Repository, session *models.Session) ([]models.Question, error) {
	found, err := repo.Question().GetByIDs(ctx, session.QuestionOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to get session questions: %w", err)
	}
	byID := make(map[uint]*models.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	delivered := make([]models.Question, 0, len(found))
	for _, id := range session.QuestionOrder {
		if q, ok := byID[id]; ok {
			delivered = append(delivered, *q)
		}
	}
	return delivered, nil
}

// ===== RESULTS =====

func (s *sessionService) GetResult(ctx context.Context, token string) (*SessionResult, error) {
	key := cache.SessionResultKey(token)
	var cached SessionResult
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Slog().WarnContext(ctx, "Result cache unavailable", "error", err)
	}

	session, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	result, err := s.buildResult(ctx, session)
	if err != nil {
		return nil, err
	}

	if session.State == models.SessionCompleted {
		if err := s.cache.Set(ctx, key, result, s.resultTTL); err != nil {
			s.logger.Slog().WarnContext(ctx, "Failed to cache result", "session_id", session.ID, "error", err)
		}
	}
	return result, nil
}

func (s *sessionService) buildResult(ctx context.Context, session *models.Session) (*SessionResult, error) {
	delivered, err := s.deliveredQuestions(ctx, s.repo, session)
	if err != nil {
		return nil, err
	}
	responses, err := s.repo.Response().GetBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}

	questions := make(map[uint]*models.Question, len(delivered))
	for i := range delivered {
		questions[delivered[i].ID] = &delivered[i]
	}
	explain := session.State == models.SessionCompleted && session.ExplanationPolicy != models.ExplanationNone

	result := &SessionResult{
		SessionID:        session.ID,
		Token:            session.Token,
		QuizID:           session.QuizID,
		State:            session.State,
		ParticipantName:  session.ParticipantName,
		ParticipantEmail: session.ParticipantEmail,
		StartTime:        session.StartTime,
		EndTime:          session.EndTime,
		Scored:           session.TotalScore != nil,
		Summary:          storedSummary(session),
		Responses:        make([]ResponseResult, 0, len(responses)),
	}
	for _, r := range responses {
		row := ResponseResult{
			QuestionID: r.QuestionID,
			AnswerData: r.AnswerData,
			Score:      r.Score,
			IsCorrect:  r.IsCorrect,
			AnsweredAt: r.AnsweredAt,
		}
		if q, ok := questions[r.QuestionID]; ok {
			row.Points = q.Points
			if explain {
				row.Explanation = q.Explanation
			}
		}
		result.Responses = append(result.Responses, row)
	}
	return result, nil
}

// ===== EXPIRY =====

func (s *sessionService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	expired := 0
	for {
		overdue, err := s.repo.Session().ListOverdue(ctx, now, expiryBatchSize)
		if err != nil {
			return expired, fmt.Errorf("failed to list overdue sessions: %w", err)
		}

		batchExpired := 0
		for _, session := range overdue {
			if s.expire(ctx, session, now) {
				batchExpired++
			}
		}
		expired += batchExpired

		// a batch that made no progress would be listed again forever
		if len(overdue) < expiryBatchSize || batchExpired == 0 {
			return expired, nil
		}
	}
}

func (s *sessionService) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.ExpireOverdue(ctx, s.now())
			if err != nil {
				s.logger.Slog().ErrorContext(ctx, "Expiry sweep failed", "error", err)
				continue
			}
			if count > 0 {
				s.logger.Slog().InfoContext(ctx, "Expired overdue sessions", "count", count)
			}
		}
	}
}

// expire marks the session expired and reports whether this call did it
func (s *sessionService) expire(ctx context.Context, session *models.Session, now time.Time) bool {
	err := s.repo.Session().MarkExpired(ctx, session.ID, now)
	if errors.Is(err, repositories.ErrNoRowsUpdated) {
		return false
	}
	if err != nil {
		s.logger.Slog().ErrorContext(ctx, "Failed to expire session", "session_id", session.ID, "error", err)
		return false
	}
	session.State = models.SessionExpired
	session.EndTime = &now
	s.publish(ctx, events.NewSessionExpiredEvent(session.ID, session.QuizID, now))
	return true
}

// ===== HELPERS =====

func (s *sessionService) getByToken(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.repo.Session().GetByToken(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// publish never fails the caller; delivery problems are only logged
func (s *sessionService) publish(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Slog().WarnContext(ctx, "Failed to publish event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}

func storedSummary(session *models.Session) scoring.Summary {
	summary := scoring.Summary{
		MaxScore:   session.MaxScore,
		Percentage: session.Percentage,
		Passed:     session.Passed,
	}
	if session.TotalScore != nil {
		summary.TotalScore = *session.TotalScore
	}
	return summary
}

func regradeAudit(ctx context.Context, sessionID uint, before, after scoring.Summary) *models.AuditLog {
	entry := &models.AuditLog{
		EventType:   models.AuditSessionRegraded,
		TargetType:  auditTargetSession,
		TargetID:    sessionID,
		Description: fmt.Sprintf("total score %.2f -> %.2f", before.TotalScore, after.TotalScore),
		Changes: datatypes.NewJSONType(models.ScoreChange{
			Before: models.ScoreSnapshot(before),
			After:  models.ScoreSnapshot(after),
		}),
	}
	if requestID := utils.RequestIDFromContext(ctx); requestID != "" {
		entry.RequestID = &requestID
	}
	return entry
}

func scoredPayload(session *models.Session, summary scoring.Summary) events.SessionScoredEvent {
	return events.SessionScoredEvent{
		SessionID:  session.ID,
		QuizID:     session.QuizID,
		TotalScore: summary.TotalScore,
		MaxScore:   summary.MaxScore,
		Percentage: summary.Percentage,
		Passed:     summary.Passed,
	}
}
