// Package shared содержит общий вывод результатов для обработчиков команд.
package shared

import (
	"fmt"
	"io"
	"time"

	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/di"
	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
)

// Metadata возвращает метаданные выполнения команды.
func Metadata(app *di.App, start time.Time) *output.Metadata {
	return &output.Metadata{
		DurationMs: time.Since(start).Milliseconds(),
		TraceID:    app.TraceID,
		APIVersion: constants.APIVersion,
	}
}

// TextOutput возвращает stdout команды, перекодированный в report.outputEncoding.
// JSON всегда пишется в UTF-8. Close дописывает хвост перекодировщика.
func TextOutput(app *di.App) (io.WriteCloser, error) {
	charset := ""
	if app.Config != nil && !app.IsJSON() {
		charset = app.Config.Report.OutputEncoding
	}
	return output.NewEncodedWriter(app.Stdout, charset)
}

// Write пишет result через app.OutputWriter.
func Write(app *di.App, result *output.Result) error {
	w, err := TextOutput(app)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrOutputFormat, err.Error(), err)
	}
	writeErr := app.OutputWriter.Write(w, result)
	closeErr := w.Close()
	if writeErr != nil {
		return fmt.Errorf("не удалось записать результат: %w", writeErr)
	}
	return closeErr
}

// WriteError пишет результат-ошибку и возвращает cause.
// Код берётся из cause (apperrors.CodeOf), иначе fallback.
// data может быть nil.
func WriteError(app *di.App, command string, start time.Time, cause error, fallback string, data any) error {
	result := &output.Result{
		Status:  output.StatusError,
		Command: command,
		Data:    data,
		Error: &output.ErrorInfo{
			Code:    apperrors.CodeOf(cause, fallback),
			Message: cause.Error(),
		},
		Metadata: Metadata(app, start),
	}
	if err := Write(app, result); err != nil {
		app.Logger.Error("Не удалось записать ответ об ошибке",
			"trace_id", app.TraceID,
			"error", err.Error(),
		)
	}
	return cause
}
