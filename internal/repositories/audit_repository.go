package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
)

// AuditRepository stores the history of administrative score changes
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByTarget(ctx context.Context, targetType string, targetID uint) ([]*models.AuditLog, error)
}
