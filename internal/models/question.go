package models

import (
	"time"
)

type QuestionType string

const (
	QuestionMCQSingle          QuestionType = "mcq_single"
	QuestionMCQMultiple        QuestionType = "mcq_multiple"
	QuestionFillBlank          QuestionType = "fill_blank"
	QuestionMatch              QuestionType = "match"
	QuestionDragText           QuestionType = "drag_text"
	QuestionDragZone           QuestionType = "drag_zone"
	QuestionDropdownBlank      QuestionType = "dropdown_blank"
	QuestionStepSequence       QuestionType = "step_sequence"
	QuestionSentenceCompletion QuestionType = "sentence_completion"
	QuestionMatrix             QuestionType = "matrix"
	QuestionNumerical          QuestionType = "numerical"
	QuestionTextBox            QuestionType = "text_box"
	QuestionPassage            QuestionType = "passage"
)

// QuestionTypes lists every type the scoring engine understands.
var QuestionTypes = []QuestionType{
	QuestionMCQSingle,
	QuestionMCQMultiple,
	QuestionFillBlank,
	QuestionMatch,
	QuestionDragText,
	QuestionDragZone,
	QuestionDropdownBlank,
	QuestionStepSequence,
	QuestionSentenceCompletion,
	QuestionMatrix,
	QuestionNumerical,
	QuestionTextBox,
	QuestionPassage,
}

// SubQuestionType is the type of a question nested inside a reading passage.
type SubQuestionType string

const (
	SubQuestionMCQSingle   SubQuestionType = "mcq_single"
	SubQuestionMCQMultiple SubQuestionType = "mcq_multiple"
	SubQuestionTextShort   SubQuestionType = "text_short"
	SubQuestionTextLong    SubQuestionType = "text_long"
)

// BlankPlaceholder marks a blank in the body of a sentence completion question.
const BlankPlaceholder = "{blank}"

type Question struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	QuizID       uint         `json:"quiz_id" gorm:"not null;index"`
	Sequence     int          `json:"sequence" gorm:"default:10"`
	Type         QuestionType `json:"type" gorm:"not null;size:32;index" validate:"required,question_type"`
	QuestionHTML string       `json:"question_html" gorm:"type:text"`
	TextTemplate string       `json:"text_template" gorm:"type:text"` // dropdown_blank body, {{1}} marks a dropdown
	Explanation  *string      `json:"explanation" gorm:"type:text"`
	Points       float64      `json:"points" gorm:"not null;default:1" validate:"min=0"`

	// text_box
	CorrectTextAnswer string `json:"correct_text_answer" gorm:"size:1000"`
	CaseSensitive     bool   `json:"case_sensitive" gorm:"default:false"`
	AllowPartialMatch bool   `json:"allow_partial_match" gorm:"default:false"`
	Keywords          string `json:"keywords" gorm:"type:text"` // comma separated

	// numerical; nil means the bound is not configured
	NumericalExactValue *float64 `json:"numerical_exact_value"`
	NumericalTolerance  float64  `json:"numerical_tolerance" gorm:"default:0" validate:"min=0"`
	NumericalMinValue   *float64 `json:"numerical_min_value"`
	NumericalMaxValue   *float64 `json:"numerical_max_value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owned children, removed together with the question
	Choices          []Choice          `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	MatchPairs       []MatchPair       `json:"match_pairs,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	DragTokens       []DragToken       `json:"drag_tokens,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	FillBlankAnswers []FillBlankAnswer `json:"fill_blank_answers,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	Blanks           []Blank           `json:"blanks,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	SequenceItems    []SequenceItem    `json:"sequence_items,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
	MatrixRows       []MatrixRow       `json:"matrix_rows,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	MatrixColumns    []MatrixColumn    `json:"matrix_columns,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	MatrixCells      []MatrixCell      `json:"matrix_cells,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Passages         []Passage         `json:"passages,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

type Choice struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Sequence   int    `json:"sequence" gorm:"default:10"`
	Text       string `json:"text" gorm:"not null;size:1000" validate:"required"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
}

func (Choice) TableName() string {
	return "quiz_choices"
}

type MatchPair struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Sequence   int    `json:"sequence" gorm:"default:10"`
	LeftText   string `json:"left_text" gorm:"not null;size:500" validate:"required"`
	RightText  string `json:"right_text" gorm:"not null;size:500" validate:"required"`
}

func (MatchPair) TableName() string {
	return "quiz_match_pairs"
}

// DragToken is used by drag_text, drag_zone and sentence_completion questions.
// CorrectPosition is 0-based.
type DragToken struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	QuestionID      uint   `json:"question_id" gorm:"not null;index"`
	Sequence        int    `json:"sequence" gorm:"default:10"`
	Text            string `json:"text" gorm:"not null;size:500" validate:"required"`
	IsCorrect       bool   `json:"is_correct" gorm:"default:false"`
	CorrectPosition int    `json:"correct_position" gorm:"default:0" validate:"min=0"`
}

func (DragToken) TableName() string {
	return "quiz_drag_tokens"
}

type FillBlankAnswer struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	QuestionID  uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_fill_blank_number"`
	Sequence    int    `json:"sequence" gorm:"default:10"`
	BlankNumber int    `json:"blank_number" gorm:"not null;uniqueIndex:idx_fill_blank_number" validate:"min=1"`
	AnswerText  string `json:"answer_text" gorm:"not null;size:500" validate:"required"`
}

func (FillBlankAnswer) TableName() string {
	return "quiz_fill_blank_answers"
}

// Blank is a dropdown inside a dropdown_blank template.
type Blank struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	QuestionID  uint          `json:"question_id" gorm:"not null;uniqueIndex:idx_dropdown_blank_number"`
	BlankNumber int           `json:"blank_number" gorm:"not null;uniqueIndex:idx_dropdown_blank_number" validate:"min=1"`
	Options     []BlankOption `json:"options" gorm:"foreignKey:BlankID;constraint:OnDelete:CASCADE" validate:"required,min=1,dive"`
}

func (Blank) TableName() string {
	return "quiz_blanks"
}

type BlankOption struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	BlankID   uint   `json:"blank_id" gorm:"not null;index"`
	Sequence  int    `json:"sequence" gorm:"default:10"`
	Label     string `json:"label" gorm:"not null;size:500" validate:"required"`
	IsCorrect bool   `json:"is_correct" gorm:"default:false"`
}

func (BlankOption) TableName() string {
	return "quiz_blank_options"
}

type SequenceItem struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	QuestionID      uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_sequence_position"`
	Label           string `json:"label" gorm:"not null;size:500" validate:"required"`
	Content         string `json:"content" gorm:"type:text"`
	CorrectPosition int    `json:"correct_position" gorm:"not null;uniqueIndex:idx_sequence_position" validate:"min=0"`
}

func (SequenceItem) TableName() string {
	return "quiz_sequence_items"
}

type MatrixRow struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Sequence   int    `json:"sequence" gorm:"default:10"`
	Name       string `json:"name" gorm:"not null;size:255"`
}

func (MatrixRow) TableName() string {
	return "quiz_matrix_rows"
}

type MatrixColumn struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Sequence   int    `json:"sequence" gorm:"default:10"`
	Name       string `json:"name" gorm:"not null;size:255"`
}

func (MatrixColumn) TableName() string {
	return "quiz_matrix_columns"
}

// MatrixCell stores the expected flag for one row/column combination.
// A combination without a cell is expected to be false.
type MatrixCell struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`
	RowID      uint `json:"row_id" gorm:"not null;uniqueIndex:idx_matrix_cell"`
	ColumnID   uint `json:"column_id" gorm:"not null;uniqueIndex:idx_matrix_cell"`
	IsCorrect  bool `json:"is_correct" gorm:"default:false"`

	// Positions into MatrixRows/MatrixColumns, used on write when the
	// referenced row or column has no id yet
	RowIndex    *int `json:"row_index,omitempty" gorm:"-"`
	ColumnIndex *int `json:"column_index,omitempty" gorm:"-"`
}

func (MatrixCell) TableName() string {
	return "quiz_matrix_cells"
}

type Passage struct {
	ID           uint                 `json:"id" gorm:"primaryKey"`
	QuestionID   uint                 `json:"question_id" gorm:"not null;index"`
	Sequence     int                  `json:"sequence" gorm:"default:10"`
	Name         string               `json:"name" gorm:"not null;size:255" validate:"required"`
	Content      string               `json:"content" gorm:"type:text"`
	SubQuestions []PassageSubQuestion `json:"sub_questions" gorm:"foreignKey:PassageID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
}

func (Passage) TableName() string {
	return "quiz_passages"
}

type PassageSubQuestion struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	PassageID     uint            `json:"passage_id" gorm:"not null;index"`
	Sequence      int             `json:"sequence" gorm:"default:10"`
	QuestionText  string          `json:"question_text" gorm:"type:text" validate:"required"`
	QuestionType  SubQuestionType `json:"question_type" gorm:"not null;size:32" validate:"required,oneof=mcq_single mcq_multiple text_short text_long"`
	Points        float64         `json:"points" gorm:"default:1" validate:"min=0"`
	CorrectAnswer string          `json:"correct_answer" gorm:"type:text"` // comma separated keywords for text sub-questions
	Choices       []PassageChoice `json:"choices,omitempty" gorm:"foreignKey:SubQuestionID;constraint:OnDelete:CASCADE" validate:"omitempty,dive"`
}

func (PassageSubQuestion) TableName() string {
	return "quiz_passage_sub_questions"
}

type PassageChoice struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	SubQuestionID uint   `json:"sub_question_id" gorm:"not null;index"`
	Sequence      int    `json:"sequence" gorm:"default:10"`
	Text          string `json:"text" gorm:"not null;size:1000" validate:"required"`
	IsCorrect     bool   `json:"is_correct" gorm:"default:false"`
}

func (PassageChoice) TableName() string {
	return "quiz_passage_choices"
}
