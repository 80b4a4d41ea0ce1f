package pkg

import (
	"fmt"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/config"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every table the service owns. Parents come
// before the children that reference them.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.QuizMode{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.MatchPair{},
		&models.DragToken{},
		&models.FillBlankAnswer{},
		&models.Blank{},
		&models.BlankOption{},
		&models.SequenceItem{},
		&models.MatrixRow{},
		&models.MatrixColumn{},
		&models.MatrixCell{},
		&models.Passage{},
		&models.PassageSubQuestion{},
		&models.PassageChoice{},
		&models.Session{},
		&models.Response{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
