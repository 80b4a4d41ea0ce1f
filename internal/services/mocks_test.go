package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/cache"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockRepository hands out the per-aggregate mocks and runs transactions
// inline against itself
type MockRepository struct {
	quiz     *MockQuizRepository
	mode     *MockModeRepository
	question *MockQuestionRepository
	session  *MockSessionRepository
	response *MockResponseRepository
	audit    *MockAuditRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		quiz:     &MockQuizRepository{},
		mode:     &MockModeRepository{},
		question: &MockQuestionRepository{},
		session:  &MockSessionRepository{},
		response: &MockResponseRepository{},
		audit:    &MockAuditRepository{},
	}
}

func (m *MockRepository) Quiz() repositories.QuizRepository         { return m.quiz }
func (m *MockRepository) Mode() repositories.ModeRepository         { return m.mode }
func (m *MockRepository) Question() repositories.QuestionRepository { return m.question }
func (m *MockRepository) Session() repositories.SessionRepository   { return m.session }
func (m *MockRepository) Response() repositories.ResponseRepository { return m.response }
func (m *MockRepository) Audit() repositories.AuditRepository       { return m.audit }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	return fn(m)
}

// ===== QUIZ =====

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	quiz, _ := args.Get(0).(*models.Quiz)
	return quiz, args.Error(1)
}

func (m *MockQuizRepository) GetByIDWithDetails(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	quiz, _ := args.Get(0).(*models.Quiz)
	return quiz, args.Error(1)
}

func (m *MockQuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) SetModes(ctx context.Context, quizID uint, modeIDs []uint) error {
	args := m.Called(ctx, quizID, modeIDs)
	return args.Error(0)
}

func (m *MockQuizRepository) HasMode(ctx context.Context, quizID, modeID uint) (bool, error) {
	args := m.Called(ctx, quizID, modeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uint) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

// ===== MODE =====

type MockModeRepository struct {
	mock.Mock
}

func (m *MockModeRepository) Create(ctx context.Context, mode *models.QuizMode) error {
	args := m.Called(ctx, mode)
	return args.Error(0)
}

func (m *MockModeRepository) GetByID(ctx context.Context, id uint) (*models.QuizMode, error) {
	args := m.Called(ctx, id)
	mode, _ := args.Get(0).(*models.QuizMode)
	return mode, args.Error(1)
}

func (m *MockModeRepository) GetByKey(ctx context.Context, key string) (*models.QuizMode, error) {
	args := m.Called(ctx, key)
	mode, _ := args.Get(0).(*models.QuizMode)
	return mode, args.Error(1)
}

func (m *MockModeRepository) List(ctx context.Context, activeOnly bool) ([]*models.QuizMode, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]*models.QuizMode), args.Error(1)
}

func (m *MockModeRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.QuizMode, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.QuizMode), args.Error(1)
}

// ===== QUESTION =====

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Question), args.Get(1).(int64), args.Error(2)
}

// ===== SESSION =====

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *MockSessionRepository) GetByIDWithResponses(ctx context.Context, id uint) (*models.Session, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *MockSessionRepository) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Session), args.Get(1).(int64), args.Error(2)
}

func (m *MockSessionRepository) MarkCompleted(ctx context.Context, id uint, endTime time.Time, score repositories.SessionScore) error {
	args := m.Called(ctx, id, endTime, score)
	return args.Error(0)
}

func (m *MockSessionRepository) UpdateScore(ctx context.Context, id uint, score repositories.SessionScore) error {
	args := m.Called(ctx, id, score)
	return args.Error(0)
}

func (m *MockSessionRepository) MarkExpired(ctx context.Context, id uint, endTime time.Time) error {
	args := m.Called(ctx, id, endTime)
	return args.Error(0)
}

func (m *MockSessionRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*models.Session, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockSessionRepository) CountByQuizAndEmail(ctx context.Context, quizID uint, email string) (int64, error) {
	args := m.Called(ctx, quizID, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) GetQuizResultStats(ctx context.Context, quizID uint) (*repositories.QuizResultStats, error) {
	args := m.Called(ctx, quizID)
	stats, _ := args.Get(0).(*repositories.QuizResultStats)
	return stats, args.Error(1)
}

// ===== RESPONSE =====

type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) Upsert(ctx context.Context, response *models.Response) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *MockResponseRepository) GetBySession(ctx context.Context, sessionID uint) ([]models.Response, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]models.Response), args.Error(1)
}

func (m *MockResponseRepository) GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.Response, error) {
	args := m.Called(ctx, sessionID, questionID)
	response, _ := args.Get(0).(*models.Response)
	return response, args.Error(1)
}

func (m *MockResponseRepository) UpdateScores(ctx context.Context, scores []repositories.ResponseScore) error {
	args := m.Called(ctx, scores)
	return args.Error(0)
}

// ===== AUDIT =====

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByTarget(ctx context.Context, targetType string, targetID uint) ([]*models.AuditLog, error) {
	args := m.Called(ctx, targetType, targetID)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// ===== CACHE =====

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var _ cache.CacheService = (*MockCache)(nil)
