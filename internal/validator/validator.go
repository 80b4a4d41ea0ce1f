package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/quiz-scoring-service/internal/errors"
	"github.com/SAP-F-2025/quiz-scoring-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// Validator combines struct tag validation with the authoring rules of
// questions and modes
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// Validate runs struct tag validation and then the authoring constraints of
// questions and modes. Failures are returned as ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	var errs ValidationErrors
	switch m := s.(type) {
	case *models.Question:
		errs = v.questionValidator.ValidateQuestion(m)
	case *models.QuizMode:
		errs = validateMode(m)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// An enforced limit of zero minutes would silently fall back to the quiz's
// own limit.
func validateMode(m *models.QuizMode) ValidationErrors {
	if m.TimeLimitEnforced && m.TimeLimitMinutes <= 0 {
		return ValidationErrors{*NewQuestionError("time_limit_minutes", "must be greater than 0 when time_limit_enforced is set", m.TimeLimitMinutes)}
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, validType := range models.QuestionTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}
