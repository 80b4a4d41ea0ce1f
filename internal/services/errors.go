package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/quiz-scoring-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Quiz specific errors
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrQuizNotPublished  = errors.New("quiz is not published")
	ErrQuizDuplicateSlug = errors.New("quiz slug already exists")
	ErrQuizHasNoQuestion = errors.New("quiz has no questions")
	ErrModeNotFound      = errors.New("quiz mode not found")
	ErrModeNotAvailable  = errors.New("quiz mode is not available for this quiz")
	ErrModeDuplicateKey  = errors.New("quiz mode key already exists")

	// Question specific errors
	ErrQuestionNotFound = errors.New("question not found")

	// Session specific errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionNotActive     = errors.New("session is not in progress")
	ErrSessionExpired       = errors.New("session time has expired")
	ErrSessionNotCompleted  = errors.New("session is not completed")
	ErrQuestionNotInSession = errors.New("question was not delivered in this session")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrModeNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrBadRequest) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrQuizDuplicateSlug) ||
		errors.Is(err, ErrModeDuplicateKey) ||
		errors.Is(err, ErrSessionNotActive) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrSessionNotCompleted)
}

// IsUnprocessable checks if error means the request is well formed but
// cannot apply to the addressed resource
func IsUnprocessable(err error) bool {
	return errors.Is(err, ErrQuizNotPublished) ||
		errors.Is(err, ErrQuizHasNoQuestion) ||
		errors.Is(err, ErrModeNotAvailable) ||
		errors.Is(err, ErrQuestionNotInSession)
}
