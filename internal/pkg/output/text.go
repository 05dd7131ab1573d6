package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const summaryDivider = "══════════════════════════════════════════════════════"

// TextWriter форматирует Result в человекочитаемый текст.
type TextWriter struct{}

// Write реализует Writer. Ошибки записи накапливаются в errWriter
// и возвращаются один раз в конце.
func (TextWriter) Write(w io.Writer, result *Result) error {
	if result == nil {
		return nil
	}
	ew := &errWriter{w: w}

	if result.DryRun && result.Plan != nil {
		result.Plan.writeText(ew)
		return ew.err
	}

	ew.printf("%s: %s\n", result.Command, result.Status)
	if result.Error != nil {
		ew.printf("Error [%s]: %s\n", result.Error.Code, result.Error.Message)
	}
	if result.Data != nil {
		data, err := json.MarshalIndent(result.Data, "", "  ")
		if err != nil {
			return fmt.Errorf("не удалось сериализовать Data: %w", err)
		}
		ew.printf("Data: %s\n", data)
	}
	if result.Status != StatusError {
		writeSummary(ew, result)
	}
	return ew.err
}

func writeSummary(ew *errWriter, result *Result) {
	ew.printf("\n%s\nСводка\n%s\n", summaryDivider, summaryDivider)
	if result.Metadata != nil && result.Metadata.DurationMs > 0 {
		ew.printf("Время выполнения: %s\n", formatDuration(result.Metadata.DurationMs))
	}
	if s := result.Summary; s != nil {
		for _, m := range s.KeyMetrics {
			ew.printf("%s: %s\n", m.Name, strings.TrimSpace(m.Value+" "+m.Unit))
		}
		if s.WarningsCount > 0 {
			ew.printf("\nПредупреждений: %d\n", s.WarningsCount)
			for _, warn := range s.Warnings {
				ew.printf("   • %s\n", warn)
			}
		}
	}
	ew.printf("%s\n", summaryDivider)
}

// formatDuration: "850мс", "12.5с", "3м 7с".
func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dмс", ms)
	}
	if ms < 60_000 {
		return fmt.Sprintf("%.1fс", float64(ms)/1000)
	}
	sec := ms / 1000
	return fmt.Sprintf("%dм %dс", sec/60, sec%60)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
