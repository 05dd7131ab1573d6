// Package progress отображает ход работы движка анализа, пока он выполняется.
// Длительность прогона заранее неизвестна, поэтому индикатор показывает
// прошедшее время относительно бюджета (таймаута).
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
)

// Progress отображает ход одной долгой операции.
type Progress interface {
	// Start начинает отображение.
	Start(message string)
	// Tick сообщает прошедшее время.
	Tick(elapsed time.Duration)
	// Finish завершает отображение; ok — успешна ли операция.
	Finish(ok bool)
}

// Режимы FB_PROGRESS.
const (
	ModeAuto  = "auto"
	ModeTTY   = "tty"
	ModePlain = "plain"
	ModeJSON  = "json"
	ModeOff   = "off"
)

// Options конфигурирует индикатор.
type Options struct {
	// Output — куда рисовать (обычно os.Stderr).
	Output io.Writer
	// Budget — таймаут операции; 0 — неизвестен.
	Budget time.Duration
	// Logger используется в plain режиме.
	Logger logging.Logger
	// ReportInterval — период строк лога в plain режиме.
	ReportInterval time.Duration
}

// DefaultReportInterval — период plain-отчётов по умолчанию.
const DefaultReportInterval = 30 * time.Second

// New выбирает реализацию по режиму:
//   - off → Noop
//   - json → JSON-lines события в Output
//   - tty → spinner
//   - plain → строки лога
//   - auto (или пусто) → spinner для терминала, plain иначе;
//     при outputFormat=json прогресс отключается, чтобы не мешать разбору stdout.
func New(mode, outputFormat string, opts Options) Progress {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = DefaultReportInterval
	}

	switch strings.ToLower(mode) {
	case ModeOff:
		return Noop{}
	case ModeJSON:
		return newJSON(opts)
	case ModeTTY:
		return newSpinner(opts)
	case ModePlain:
		return newPlain(opts)
	}

	if strings.EqualFold(outputFormat, "json") {
		return Noop{}
	}
	if IsTTY(opts.Output) {
		return newSpinner(opts)
	}
	return newPlain(opts)
}

// Track вызывает fn, подавая Tick каждые interval, пока fn не вернётся
// или не отменён ctx. Finish вызывается с результатом ok, который вернул fn.
func Track(ctx context.Context, p Progress, message string, interval time.Duration, fn func() bool) bool {
	p.Start(message)
	start := time.Now()

	done := make(chan bool, 1)
	go func() { done <- fn() }()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case ok := <-done:
			p.Finish(ok)
			return ok
		case <-ticker.C:
			p.Tick(time.Since(start))
		case <-ctx.Done():
			// fn владеет своими ресурсами; дожидаемся её завершения
			ok := <-done
			p.Finish(ok)
			return ok
		}
	}
}

// Noop ничего не выводит.
type Noop struct{}

func (Noop) Start(string)       {}
func (Noop) Tick(time.Duration) {}
func (Noop) Finish(bool)        {}

// IsTTY проверяет, является ли writer терминалом.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// FormatDuration форматирует длительность: "45s", "5m 30s", "1h 7m 30s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		return "0s"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// budgetPercent — доля израсходованного бюджета, -1 если бюджет неизвестен.
func budgetPercent(elapsed, budget time.Duration) int {
	if budget <= 0 {
		return -1
	}
	p := int(elapsed * 100 / budget)
	if p > 100 {
		p = 100
	}
	return p
}
