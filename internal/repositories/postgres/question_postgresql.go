package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// Create inserts the question together with all owned children
func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(question).Error; err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		return createQuestionChildren(tx, question)
	})
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := preloadQuestionChildren(q.db.WithContext(ctx), "").First(&question, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get question %d: %w", id, err)
	}
	return &question, nil
}

// Update rewrites the question row and replaces its children. Child ids sent
// by the caller are kept, so stored answers that reference them stay valid.
func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Question{}).Where("id = ?", question.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check question: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("failed to update question %d: %w", question.ID, gorm.ErrRecordNotFound)
		}

		if err := deleteQuestionChildren(tx, question.ID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(question).Error; err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		if err := createQuestionChildren(tx, question); err != nil {
			return err
		}
		return nil
	})
}

// Delete removes the question and everything it owns in one transaction,
// without relying on database level cascades.
func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteQuestionChildren(tx, id); err != nil {
			return err
		}
		result := tx.Select(clause.Associations).Delete(&models.Question{ID: id})
		if result.Error != nil {
			return fmt.Errorf("failed to delete question: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("failed to delete question %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error) {
	var questions []*models.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := preloadQuestionChildren(q.db.WithContext(ctx), "").
		Where("id IN ?", ids).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := preloadQuestionChildren(q.db.WithContext(ctx), "").
		Where("quiz_id = ?", quizID).
		Order("sequence ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %d: %w", quizID, err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	var questions []*models.Question
	err := query.Order("quiz_id ASC, sequence ASC, id ASC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&questions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

// deleteQuestionChildren removes nested children first so no foreign key
// is left dangling.
func deleteQuestionChildren(tx *gorm.DB, questionID uint) error {
	passageIDs := tx.Model(&models.Passage{}).Select("id").Where("question_id = ?", questionID)
	subQuestionIDs := tx.Model(&models.PassageSubQuestion{}).Select("id").Where("passage_id IN (?)", passageIDs)
	blankIDs := tx.Model(&models.Blank{}).Select("id").Where("question_id = ?", questionID)

	steps := []struct {
		name  string
		model any
		where string
		arg   any
	}{
		{"passage choices", &models.PassageChoice{}, "sub_question_id IN (?)", subQuestionIDs},
		{"passage sub-questions", &models.PassageSubQuestion{}, "passage_id IN (?)", passageIDs},
		{"passages", &models.Passage{}, "question_id = ?", questionID},
		{"blank options", &models.BlankOption{}, "blank_id IN (?)", blankIDs},
		{"blanks", &models.Blank{}, "question_id = ?", questionID},
		{"choices", &models.Choice{}, "question_id = ?", questionID},
		{"match pairs", &models.MatchPair{}, "question_id = ?", questionID},
		{"drag tokens", &models.DragToken{}, "question_id = ?", questionID},
		{"fill blank answers", &models.FillBlankAnswer{}, "question_id = ?", questionID},
		{"sequence items", &models.SequenceItem{}, "question_id = ?", questionID},
		{"matrix cells", &models.MatrixCell{}, "question_id = ?", questionID},
		{"matrix rows", &models.MatrixRow{}, "question_id = ?", questionID},
		{"matrix columns", &models.MatrixColumn{}, "question_id = ?", questionID},
	}
	for _, step := range steps {
		if err := tx.Where(step.where, step.arg).Delete(step.model).Error; err != nil {
			return fmt.Errorf("failed to delete %s: %w", step.name, err)
		}
	}
	return nil
}

// createQuestionChildren inserts the children of an already stored question.
// Nested children (blank options, passage sub-questions and their choices)
// are saved by gorm together with their parent.
func createQuestionChildren(tx *gorm.DB, question *models.Question) error {
	id := question.ID
	for i := range question.Choices {
		question.Choices[i].QuestionID = id
	}
	for i := range question.MatchPairs {
		question.MatchPairs[i].QuestionID = id
	}
	for i := range question.DragTokens {
		question.DragTokens[i].QuestionID = id
	}
	for i := range question.FillBlankAnswers {
		question.FillBlankAnswers[i].QuestionID = id
	}
	for i := range question.Blanks {
		question.Blanks[i].QuestionID = id
	}
	for i := range question.SequenceItems {
		question.SequenceItems[i].QuestionID = id
	}
	for i := range question.MatrixRows {
		question.MatrixRows[i].QuestionID = id
	}
	for i := range question.MatrixColumns {
		question.MatrixColumns[i].QuestionID = id
	}
	for i := range question.MatrixCells {
		question.MatrixCells[i].QuestionID = id
	}
	for i := range question.Passages {
		question.Passages[i].QuestionID = id
	}

	children := []struct {
		name  string
		value any
		empty bool
	}{
		{"choices", &question.Choices, len(question.Choices) == 0},
		{"match pairs", &question.MatchPairs, len(question.MatchPairs) == 0},
		{"drag tokens", &question.DragTokens, len(question.DragTokens) == 0},
		{"fill blank answers", &question.FillBlankAnswers, len(question.FillBlankAnswers) == 0},
		{"blanks", &question.Blanks, len(question.Blanks) == 0},
		{"sequence items", &question.SequenceItems, len(question.SequenceItems) == 0},
		{"matrix rows", &question.MatrixRows, len(question.MatrixRows) == 0},
		{"matrix columns", &question.MatrixColumns, len(question.MatrixColumns) == 0},
		{"matrix cells", &question.MatrixCells, len(question.MatrixCells) == 0},
		{"passages", &question.Passages, len(question.Passages) == 0},
	}
	for _, child := range children {
		if child.empty {
			continue
		}
		if child.name == "matrix cells" {
			if err := resolveMatrixCells(question); err != nil {
				return err
			}
		}
		if err := tx.Create(child.value).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", child.name, err)
		}
	}
	return nil
}

// resolveMatrixCells fills row and column ids of cells that reference their
// row or column by position. Rows and columns must already be stored.
func resolveMatrixCells(question *models.Question) error {
	for i := range question.MatrixCells {
		cell := &question.MatrixCells[i]
		if cell.RowIndex != nil {
			if *cell.RowIndex < 0 || *cell.RowIndex >= len(question.MatrixRows) {
				return fmt.Errorf("matrix cell %d: row index %d out of range", i, *cell.RowIndex)
			}
			cell.RowID = question.MatrixRows[*cell.RowIndex].ID
		}
		if cell.ColumnIndex != nil {
			if *cell.ColumnIndex < 0 || *cell.ColumnIndex >= len(question.MatrixColumns) {
				return fmt.Errorf("matrix cell %d: column index %d out of range", i, *cell.ColumnIndex)
			}
			cell.ColumnID = question.MatrixColumns[*cell.ColumnIndex].ID
		}
	}
	return nil
}
