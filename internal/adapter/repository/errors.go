package repository

import (
	"errors"
	"fmt"

	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"
)

// ErrSignature — подпись артефакта не прошла проверку.
var ErrSignature = errors.New("подпись артефакта недействительна")

// ResolutionError — координата не разрешена ни в локальном, ни в удалённых репозиториях.
type ResolutionError struct {
	Coordinate Coordinate
	Err        error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("не удалось разрешить артефакт %s: %v", e.Coordinate, e.Err)
	}
	return fmt.Sprintf("не удалось разрешить артефакт %s", e.Coordinate)
}

// Unwrap возвращает причину.
func (e *ResolutionError) Unwrap() error { return e.Err }

// ErrorCode реализует apperrors.Coded.
func (e *ResolutionError) ErrorCode() string { return apperrors.ErrDependencyResolution }

// As конвертирует ошибку в *apperrors.AppError.
func (e *ResolutionError) As(target any) bool {
	if t, ok := target.(**apperrors.AppError); ok {
		*t = apperrors.NewAppError(e.ErrorCode(), e.Error(), e.Err)
		return true
	}
	return false
}

// httpError — неуспешный HTTP ответ удалённого репозитория.
type httpError struct {
	StatusCode int
	URL        string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// isClientHTTPError: 4xx не ретраятся, артефакта в этом репозитории нет.
func isClientHTTPError(err error) bool {
	var he *httpError
	if !errors.As(err, &he) {
		return false
	}
	return he.StatusCode >= 400 && he.StatusCode < 500
}
