// Package apperrors предоставляет структурированные ошибки приложения.
// Переименован из errors чтобы избежать конфликта со стандартной библиотекой.
package apperrors

import (
	"errors"
	"fmt"
)

// Коды ошибок в иерархическом формате: CATEGORY.SPECIFIC_ERROR.
// Позволяет grep по категориям: `grep "RESOURCE\."` для всех ошибок ресурсов.
const (
	// Category: CONFIG — ошибки загрузки, парсинга и валидации конфигурации.
	ErrConfigLoad         = "CONFIG.LOAD_FAILED"
	ErrConfigParse        = "CONFIG.PARSE_FAILED"
	ErrConfigValidate     = "CONFIG.VALIDATION_FAILED"
	ErrConfigInvalidField = "CONFIG.INVALID_FIELD"

	// Category: RESOURCE — ошибки поиска и материализации ресурсов (фильтры, baseline, plugin list).
	ErrResourceNotFound = "RESOURCE.NOT_FOUND"
	ErrResourceCopy     = "RESOURCE.COPY_FAILED"
	ErrResourceEmpty    = "RESOURCE.EMPTY"

	// Category: DEPENDENCY — ошибки разрешения артефактов плагинов.
	ErrDependencyResolution = "DEPENDENCY.RESOLUTION_FAILED"

	// Category: ANALYSIS — ошибки выполнения движка анализа.
	ErrAnalysisExecution = "ANALYSIS.EXECUTION_FAILED"

	// Category: HISTORY — ошибки журнала прогонов.
	ErrHistoryConnect = "HISTORY.CONNECT_FAILED"
	ErrHistoryWrite   = "HISTORY.WRITE_FAILED"

	// Category: COMMAND — ошибки выполнения команд.
	ErrCommandNotFound = "COMMAND.NOT_FOUND"
	ErrCommandExec     = "COMMAND.EXEC_FAILED"

	// Category: OUTPUT — ошибки форматирования вывода.
	ErrOutputFormat = "OUTPUT.FORMAT_FAILED"
)

// Coded реализуется доменными ошибками, у которых есть машиночитаемый код.
type Coded interface {
	ErrorCode() string
}

// AppError представляет структурированную ошибку приложения.
// Реализует error interface и поддерживает wrapping через Unwrap().
//
// ВАЖНО: Message НЕ ДОЛЖЕН содержать секреты (пароли, токены, ключи).
// Используйте generic описания без конкретных значений.
//
// Пример использования:
//
//	return apperrors.NewAppError(apperrors.ErrConfigLoad,
//	    "не удалось загрузить конфигурацию анализа",
//	    err)
type AppError struct {
	// Code — машиночитаемый код ошибки в формате CATEGORY.SPECIFIC.
	Code string `json:"code"`

	// Message — человекочитаемое описание ошибки.
	// НЕ ДОЛЖЕН содержать секреты!
	Message string `json:"message"`

	// Cause — wrapped оригинальная ошибка.
	// Не сериализуется в JSON для безопасности.
	Cause error `json:"-"`
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает wrapped ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// ErrorCode возвращает код ошибки.
func (e *AppError) ErrorCode() string {
	return e.Code
}

// NewAppError создаёт новый AppError с заданным кодом, сообщением и причиной.
//
// ВАЖНО: message НЕ ДОЛЖЕН содержать секреты!
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf возвращает код первой ошибки в цепочке, реализующей Coded.
// Для ошибок без кода возвращает fallback.
func CodeOf(err error, fallback string) string {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return fallback
}
