// Package di собирает зависимости приложения через Wire.
package di

import (
	"io"

	"github.com/Kargones/findbugs-ci/internal/adapter/history"
	"github.com/Kargones/findbugs-ci/internal/config"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/metrics"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
	"github.com/Kargones/findbugs-ci/internal/pkg/tracing"
)

// App содержит инициализированные зависимости приложения.
// Создаётся через InitializeApp().
//
// При добавлении новых зависимостей:
// 1. Добавить поле в App struct
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Config содержит конфигурацию. Передаётся извне через InitializeApp().
	Config *config.Config

	// Logger пишет в stderr или файл; stdout зарезервирован для результата команды.
	Logger logging.Logger

	// OutputWriter форматирует результаты команд (FB_OUTPUT_FORMAT).
	OutputWriter output.Writer

	// Stdout — куда пишется результат команды.
	Stdout io.Writer

	// TraceID коррелирует логи, span-ы и запись журнала одного запуска.
	TraceID string

	// MetricsCollector отправляет метрики в Pushgateway; NopCollector если выключены.
	MetricsCollector metrics.Collector

	// TracerShutdown отправляет буферизированные span-ы; no-op если трейсинг выключен.
	TracerShutdown tracing.ShutdownFunc

	// History — журнал прогонов; history.Nop если журнал выключен или недоступен.
	History history.Journal
}

// Close освобождает ресурсы, открытые провайдерами.
func (a *App) Close() error {
	if a.History == nil {
		return nil
	}
	return a.History.Close()
}

// IsJSON сообщает, выбран ли JSON формат вывода.
func (a *App) IsJSON() bool {
	_, ok := a.OutputWriter.(output.JSONWriter)
	return ok
}
