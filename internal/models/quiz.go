package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID                 uint    `json:"id" gorm:"primaryKey"`
	Title              string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Slug               string  `json:"slug" gorm:"not null;size:200;uniqueIndex" validate:"required,max=200"`
	Description        *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Published          bool    `json:"published" gorm:"default:false;index"`
	PassingScore       float64 `json:"passing_score" gorm:"not null;default:60" validate:"min=0,max=100"`
	RandomizeQuestions bool    `json:"randomize_questions" gorm:"default:false"`
	QuestionLimit      int     `json:"question_limit" gorm:"default:0" validate:"min=0"` // 0 = all questions
	TimeLimit          int     `json:"time_limit" gorm:"default:0" validate:"min=0"`     // minutes, 0 = no limit
	MaxAttempts        int     `json:"max_attempts" gorm:"default:1" validate:"min=0"`
	ShowResults        bool    `json:"show_results" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	Modes     []QuizMode `json:"modes,omitempty" gorm:"many2many:quiz_mode_rel"`

	// Computed fields (not stored)
	TotalPoints float64 `json:"total_points" gorm:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type ExplanationPolicy string

const (
	ExplanationNone            ExplanationPolicy = "none"
	ExplanationImmediate       ExplanationPolicy = "immediate"
	ExplanationAfterAnswer     ExplanationPolicy = "after_answer"
	ExplanationAfterCompletion ExplanationPolicy = "after_completion"
)

// QuizMode captures runtime behaviour a session is started with (tutor, exam, ...).
type QuizMode struct {
	ID                   uint              `json:"id" gorm:"primaryKey"`
	Key                  string            `json:"key" gorm:"not null;size:50;uniqueIndex" validate:"required,max=50"`
	Name                 string            `json:"name" gorm:"not null;size:100" validate:"required"`
	Description          string            `json:"description" gorm:"type:text"`
	Active               bool              `json:"active" gorm:"default:true"`
	ImmediateFeedback    bool              `json:"immediate_feedback" gorm:"default:false"`
	ExplanationPolicy    ExplanationPolicy `json:"explanation_policy" gorm:"size:32;default:after_completion" validate:"omitempty,oneof=none immediate after_answer after_completion"`
	IsAdaptive           bool              `json:"is_adaptive" gorm:"default:false"`
	TimeLimitEnforced    bool              `json:"time_limit_enforced" gorm:"default:false"`
	TimeLimitMinutes     int               `json:"time_limit_minutes" gorm:"default:0" validate:"min=0"`
	DefaultQuestionLimit int               `json:"default_question_limit" gorm:"default:0" validate:"min=0"`
}

func (QuizMode) TableName() string {
	return "quiz_modes"
}

// TotalQuestionPoints sums points over the given questions in order.
func TotalQuestionPoints(questions []Question) float64 {
	var total float64
	for _, q := range questions {
		total += q.Points
	}
	return total
}
