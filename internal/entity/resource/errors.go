package resource

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"
)

// ErrNotFound is returned by a Strategy that cannot satisfy a reference.
// The Locator moves on to the next strategy.
var ErrNotFound = errors.New("resource not found")

// NotFoundError is returned when no strategy could locate a reference.
type NotFoundError struct {
	Reference Reference
	// Attempts holds one "strategy: reason" entry per strategy tried.
	Attempts []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("resource %q not found", string(e.Reference))
	if len(e.Attempts) > 0 {
		msg += " (" + strings.Join(e.Attempts, "; ") + ")"
	}
	return msg
}

// ErrorCode implements apperrors.Coded.
func (e *NotFoundError) ErrorCode() string { return apperrors.ErrResourceNotFound }

// As converts the error to *apperrors.AppError.
func (e *NotFoundError) As(target any) bool {
	if t, ok := target.(**apperrors.AppError); ok {
		*t = apperrors.NewAppError(e.ErrorCode(), e.Error(), nil)
		return true
	}
	return false
}

// CopyError is returned when a reference was located but its bytes could
// not be materialized. The Locator does not fall back to later strategies.
type CopyError struct {
	Reference Reference
	Origin    string
	Err       error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("resource %q from %s could not be copied: %v", string(e.Reference), e.Origin, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// ErrorCode implements apperrors.Coded.
func (e *CopyError) ErrorCode() string { return apperrors.ErrResourceCopy }

// As converts the error to *apperrors.AppError.
func (e *CopyError) As(target any) bool {
	if t, ok := target.(**apperrors.AppError); ok {
		*t = apperrors.NewAppError(e.ErrorCode(), e.Error(), e.Err)
		return true
	}
	return false
}

// EmptyError is returned under EmptyFail when located content has zero bytes.
type EmptyError struct {
	Reference Reference
	Origin    string
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("resource %q from %s is empty", string(e.Reference), e.Origin)
}

// ErrorCode implements apperrors.Coded.
func (e *EmptyError) ErrorCode() string { return apperrors.ErrResourceEmpty }
