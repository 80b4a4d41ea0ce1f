package postgres

import (
	"context"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm backed repositories.Repository. Inside
// WithTransaction every accessor is bound to the transaction handle.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{db: db}
}

func (r *Repository) Quiz() repositories.QuizRepository {
	return NewQuizPostgreSQL(r.db)
}

func (r *Repository) Mode() repositories.ModeRepository {
	return NewModePostgreSQL(r.db)
}

func (r *Repository) Question() repositories.QuestionRepository {
	return NewQuestionPostgreSQL(r.db)
}

func (r *Repository) Session() repositories.SessionRepository {
	return NewSessionPostgreSQL(r.db)
}

func (r *Repository) Response() repositories.ResponseRepository {
	return NewResponsePostgreSQL(r.db)
}

func (r *Repository) Audit() repositories.AuditRepository {
	return NewAuditPostgreSQL(r.db)
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}
