package analysis

import (
	"fmt"

	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"
)

// InvalidConfigurationError names the setting that failed validation.
// It is a setup-time error and is never downgraded by failOnError.
type InvalidConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s=%q: %s", e.Field, e.Value, e.Reason)
}

// ErrorCode implements apperrors.Coded.
func (e *InvalidConfigurationError) ErrorCode() string { return apperrors.ErrConfigInvalidField }

// As converts the error to *apperrors.AppError.
func (e *InvalidConfigurationError) As(target any) bool {
	if t, ok := target.(**apperrors.AppError); ok {
		*t = apperrors.NewAppError(e.ErrorCode(), e.Error(), nil)
		return true
	}
	return false
}

// ExecutionError is returned by Interpret when a run failed and failOnError is set.
type ExecutionError struct {
	Failure *Failure
}

func (e *ExecutionError) Error() string { return e.Failure.Error() }

func (e *ExecutionError) Unwrap() error { return e.Failure }

// ErrorCode implements apperrors.Coded.
func (e *ExecutionError) ErrorCode() string { return apperrors.ErrAnalysisExecution }

// As converts the error to *apperrors.AppError.
func (e *ExecutionError) As(target any) bool {
	if t, ok := target.(**apperrors.AppError); ok {
		*t = apperrors.NewAppError(e.ErrorCode(), e.Error(), e.Failure.Err)
		return true
	}
	return false
}
