package di

import (
	"context"
	"io"
	"os"

	"github.com/Kargones/findbugs-ci/internal/adapter/history"
	"github.com/Kargones/findbugs-ci/internal/config"
	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/metrics"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
	"github.com/Kargones/findbugs-ci/internal/pkg/tracing"
)

// ProvideLogger создаёт Logger из секции logging.
// Пустые поля заменяются значениями logging.DefaultConfig().
func ProvideLogger(cfg *config.Config) logging.Logger {
	logCfg := logging.DefaultConfig()
	if cfg == nil {
		return logging.NewLogger(logCfg)
	}

	l := cfg.LoggingSettings()
	if l.Level != "" {
		logCfg.Level = l.Level
	}
	if l.Format != "" {
		logCfg.Format = l.Format
	}
	if l.Output != "" {
		logCfg.Output = l.Output
	}
	if l.FilePath != "" {
		logCfg.FilePath = l.FilePath
	}
	if l.MaxSize > 0 {
		logCfg.MaxSize = l.MaxSize
	}
	if l.MaxBackups > 0 {
		logCfg.MaxBackups = l.MaxBackups
	}
	if l.MaxAge > 0 {
		logCfg.MaxAge = l.MaxAge
	}
	logCfg.Compress = l.Compress

	return logging.NewLogger(logCfg)
}

// ProvideOutputWriter создаёт Writer по FB_OUTPUT_FORMAT: "json" или текст.
// Формат не входит в Config, чтобы переключаться без правки YAML.
func ProvideOutputWriter() output.Writer {
	format := os.Getenv(constants.EnvOutputFormat)
	if format == "" {
		format = output.FormatText
	}
	return output.NewWriter(format)
}

// ProvideStdout возвращает поток для результата команды.
func ProvideStdout() io.Writer {
	return os.Stdout
}

// ProvideTraceID генерирует trace_id запуска (32 hex символа).
func ProvideTraceID() string {
	return tracing.GenerateTraceID()
}

// ProvideMetricsCollector создаёт Collector из секции metrics.
// При ошибке создания возвращает NopCollector и логирует ошибку.
func ProvideMetricsCollector(cfg *config.Config, logger logging.Logger) metrics.Collector {
	if cfg == nil {
		return metrics.NopCollector{}
	}
	collector, err := metrics.NewCollector(cfg.MetricsSettings(), logger)
	if err != nil {
		logger.Error("ошибка создания MetricsCollector, используется NopCollector", "error", err.Error())
		return metrics.NopCollector{}
	}
	return collector
}

// ProvideTracerProvider инициализирует OTel TracerProvider и возвращает его shutdown.
// При ошибке возвращает no-op shutdown и логирует ошибку.
func ProvideTracerProvider(cfg *config.Config, logger logging.Logger) tracing.ShutdownFunc {
	nop := func(context.Context) error { return nil }
	if cfg == nil {
		return nop
	}
	shutdown, err := tracing.NewTracerProvider(cfg.TracingSettings(constants.Version), logger)
	if err != nil {
		logger.Error("ошибка инициализации tracing, используется nop provider", "error", err.Error())
		return nop
	}
	return shutdown
}

// ProvideHistory подключает журнал прогонов из секции history.
// Недоступный сервер не прерывает запуск: журнал заменяется history.Nop.
func ProvideHistory(cfg *config.Config, logger logging.Logger) history.Journal {
	if cfg == nil || !cfg.History.Enabled {
		return history.Nop{}
	}
	h := cfg.History

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = history.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	j, err := history.NewMSSQLJournal(ctx, history.Options{
		Server:            h.Server,
		Port:              h.Port,
		User:              h.User,
		Password:          h.Password,
		Database:          h.Database,
		Timeout:           h.Timeout,
		DisableEncryption: h.DisableEncryption,
	})
	if err != nil {
		logger.Warn("журнал прогонов недоступен, запись отключена", "server", h.Server, "error", err.Error())
		return history.Nop{}
	}
	logger.Debug("журнал прогонов подключён", "server", h.Server, "database", h.Database)
	return j
}
