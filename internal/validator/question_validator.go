package validator

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/SAP-F-2025/quiz-scoring-service/internal/errors"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
)

// QuestionValidator checks the authoring constraints of a question. These
// run on create and update only; scoring tolerates whatever is stored.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion returns every constraint the question violates.
func (v *QuestionValidator) ValidateQuestion(q *models.Question) ValidationErrors {
	c := &collector{}

	if q.Points < 0 || math.IsNaN(q.Points) || math.IsInf(q.Points, 0) {
		c.add("points", "must be a finite number of at least 0", q.Points)
	}

	switch q.Type {
	case models.QuestionMCQSingle:
		v.validateChoices(c, q.Choices, true)
	case models.QuestionMCQMultiple:
		v.validateChoices(c, q.Choices, false)
	case models.QuestionFillBlank:
		v.validateFillBlank(c, q.FillBlankAnswers)
	case models.QuestionMatch:
		if len(q.MatchPairs) == 0 {
			c.add("match_pairs", "must have at least 1 pair", nil)
		}
	case models.QuestionDragText, models.QuestionDragZone:
		v.validateTokens(c, q.DragTokens)
	case models.QuestionSentenceCompletion:
		v.validateTokens(c, q.DragTokens)
		if !strings.Contains(q.QuestionHTML, models.BlankPlaceholder) {
			c.add("question_html", fmt.Sprintf("must contain at least one %s placeholder", models.BlankPlaceholder), nil)
		}
	case models.QuestionDropdownBlank:
		v.validateDropdown(c, q)
	case models.QuestionStepSequence:
		v.validateSequence(c, q.SequenceItems)
	case models.QuestionMatrix:
		v.validateMatrix(c, q)
	case models.QuestionNumerical:
		v.validateNumerical(c, q)
	case models.QuestionTextBox:
		if strings.TrimSpace(q.CorrectTextAnswer) == "" {
			c.add("correct_text_answer", "is required", nil)
		}
	case models.QuestionPassage:
		v.validatePassages(c, q.Passages)
	default:
		c.add("type", "must be a valid question type", q.Type)
	}

	return c.errs
}

type collector struct {
	errs ValidationErrors
}

func (c *collector) add(field, message string, value interface{}) {
	c.errs = append(c.errs, *NewQuestionError(field, message, value))
}

// NewQuestionError builds a validation error tagged with the authoring rule.
func NewQuestionError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationErrorWithRule(field, message, "question_constraint", value)
}

func (v *QuestionValidator) validateChoices(c *collector, choices []models.Choice, single bool) {
	if len(choices) == 0 {
		c.add("choices", "must have at least 1 choice", nil)
		return
	}
	correct := 0
	for _, ch := range choices {
		if ch.IsCorrect {
			correct++
		}
	}
	switch {
	case single && correct != 1:
		c.add("choices", "must have exactly 1 correct choice", correct)
	case !single && correct == 0:
		c.add("choices", "must have at least 1 correct choice", correct)
	}
}

func (v *QuestionValidator) validateFillBlank(c *collector, answers []models.FillBlankAnswer) {
	if len(answers) == 0 {
		c.add("fill_blank_answers", "must have at least 1 blank answer", nil)
		return
	}
	seen := make(map[int]bool, len(answers))
	for i, a := range answers {
		if seen[a.BlankNumber] {
			c.add(fmt.Sprintf("fill_blank_answers[%d].blank_number", i), "must be unique within the question", a.BlankNumber)
		}
		seen[a.BlankNumber] = true
	}
}

func (v *QuestionValidator) validateTokens(c *collector, tokens []models.DragToken) {
	if len(tokens) == 0 {
		c.add("drag_tokens", "must have at least 1 token", nil)
		return
	}
	for _, t := range tokens {
		if t.IsCorrect {
			return
		}
	}
	c.add("drag_tokens", "must have at least 1 correct token", nil)
}

func (v *QuestionValidator) validateDropdown(c *collector, q *models.Question) {
	if strings.TrimSpace(q.TextTemplate) == "" {
		c.add("text_template", "is required", nil)
	}
	if len(q.Blanks) == 0 {
		c.add("blanks", "must have at least 1 blank", nil)
		return
	}
	seen := make(map[int]bool, len(q.Blanks))
	for i, b := range q.Blanks {
		if seen[b.BlankNumber] {
			c.add(fmt.Sprintf("blanks[%d].blank_number", i), "must be unique within the question", b.BlankNumber)
		}
		seen[b.BlankNumber] = true

		correct := 0
		for _, o := range b.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct > 1 {
			c.add(fmt.Sprintf("blanks[%d].options", i), "must have at most 1 correct option", correct)
		}
	}
}

func (v *QuestionValidator) validateSequence(c *collector, items []models.SequenceItem) {
	if len(items) == 0 {
		c.add("sequence_items", "must have at least 1 item", nil)
		return
	}
	seen := make(map[int]bool, len(items))
	for i, item := range items {
		if seen[item.CorrectPosition] {
			c.add(fmt.Sprintf("sequence_items[%d].correct_position", i), "must be unique within the question", item.CorrectPosition)
		}
		seen[item.CorrectPosition] = true
	}
}

func (v *QuestionValidator) validateMatrix(c *collector, q *models.Question) {
	if len(q.MatrixRows) == 0 {
		c.add("matrix_rows", "must have at least 1 row", nil)
	}
	if len(q.MatrixColumns) == 0 {
		c.add("matrix_columns", "must have at least 1 column", nil)
	}

	seen := make(map[string]bool, len(q.MatrixCells))
	for i, cell := range q.MatrixCells {
		row, ok := cellRef(cell.RowID, cell.RowIndex, len(q.MatrixRows))
		if !ok {
			c.add(fmt.Sprintf("matrix_cells[%d].row", i), "must reference a row", nil)
			continue
		}
		col, ok := cellRef(cell.ColumnID, cell.ColumnIndex, len(q.MatrixColumns))
		if !ok {
			c.add(fmt.Sprintf("matrix_cells[%d].column", i), "must reference a column", nil)
			continue
		}
		key := row + "/" + col
		if seen[key] {
			c.add(fmt.Sprintf("matrix_cells[%d]", i), "must be unique per row and column", key)
		}
		seen[key] = true
	}
}

// cellRef names the row or column a cell points at, either by index into the
// question's slice or by stored id.
func cellRef(id uint, index *int, count int) (string, bool) {
	if index != nil {
		if *index < 0 || *index >= count {
			return "", false
		}
		return fmt.Sprintf("#%d", *index), true
	}
	if id == 0 {
		return "", false
	}
	return fmt.Sprintf("%d", id), true
}

func (v *QuestionValidator) validateNumerical(c *collector, q *models.Question) {
	hasRange := q.NumericalMinValue != nil && q.NumericalMaxValue != nil
	if q.NumericalExactValue == nil && !hasRange {
		c.add("numerical_exact_value", "requires an exact value or both min and max values", nil)
	}
	if (q.NumericalMinValue == nil) != (q.NumericalMaxValue == nil) {
		c.add("numerical_min_value", "min and max values must be set together", nil)
	}
	if hasRange && *q.NumericalMinValue > *q.NumericalMaxValue {
		c.add("numerical_min_value", "must not exceed numerical_max_value", *q.NumericalMinValue)
	}
	if q.NumericalTolerance < 0 {
		c.add("numerical_tolerance", "must be at least 0", q.NumericalTolerance)
	}
}

func (v *QuestionValidator) validatePassages(c *collector, passages []models.Passage) {
	if len(passages) == 0 {
		c.add("passages", "must have at least 1 passage", nil)
		return
	}
	for i, p := range passages {
		for j, sq := range p.SubQuestions {
			field := fmt.Sprintf("passages[%d].sub_questions[%d]", i, j)
			if sq.Points < 0 {
				c.add(field+".points", "must be at least 0", sq.Points)
			}
			switch sq.QuestionType {
			case models.SubQuestionMCQSingle, models.SubQuestionMCQMultiple:
				correct := 0
				for _, ch := range sq.Choices {
					if ch.IsCorrect {
						correct++
					}
				}
				if sq.QuestionType == models.SubQuestionMCQSingle && correct != 1 {
					c.add(field+".choices", "must have exactly 1 correct choice", correct)
				} else if correct == 0 {
					c.add(field+".choices", "must have at least 1 correct choice", correct)
				}
			case models.SubQuestionTextShort, models.SubQuestionTextLong:
				if strings.TrimSpace(sq.CorrectAnswer) == "" {
					c.add(field+".correct_answer", "is required", nil)
				}
			}
		}
	}
}
