// Package main — точка входа findbugs-ci: статический анализ байткода
// Java-проекта в CI-пайплайне.
//
// Команда берётся из первого аргумента, затем из FB_COMMAND; без них
// выполняется help. Коды выхода: 0 — успех, 5 — ошибка загрузки
// конфигурации, 8 — ошибка команды.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/findbugs-ci/internal/command"
	"github.com/Kargones/findbugs-ci/internal/command/handlers"
	"github.com/Kargones/findbugs-ci/internal/command/handlers/shared"
	"github.com/Kargones/findbugs-ci/internal/config"
	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/di"
	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"
	"github.com/Kargones/findbugs-ci/internal/pkg/tracing"
)

// shutdownTimeout — время на отправку span-ов и метрик после команды.
const shutdownTimeout = 5 * time.Second

// registerCommands регистрирует обработчики один раз на процесс.
var registerCommands = sync.OnceValue(handlers.RegisterAll)

func main() {
	os.Exit(run(os.Args[1:]))
}

// commandName: первый аргумент, затем FB_COMMAND, иначе help.
func commandName(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if name := os.Getenv(constants.EnvCommand); name != "" {
		return name
	}
	return constants.ActHelp
}

// run содержит основную логику и возвращает exit code.
// os.Exit вызывается только в main, после отработки всех defer.
func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось загрузить конфигурацию: %v\n", err)
		return constants.ExitConfigFailure
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Не удалось инициализировать приложение: %v\n", err)
		return constants.ExitConfigFailure
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Warn("ошибка закрытия журнала прогонов", "error", err.Error())
		}
	}()

	l := app.Logger
	name := commandName(args)
	l.Debug("Информация о сборке",
		"version", constants.Version,
		"commit_hash", constants.PreCommitHash,
	)

	if err := registerCommands(); err != nil {
		l.Error("Ошибка регистрации команд", "error", err.Error())
		return constants.ExitCommandFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.WithTraceID(ctx, app.TraceID)
	ctx = tracing.ContextWithOTelTraceID(ctx, app.TraceID)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.TracerShutdown(shutdownCtx); err != nil {
			l.Error("ошибка завершения tracing",
				"error", err.Error(),
				"trace_id", app.TraceID,
				"command", name,
			)
		}
	}()

	ctx, span := otel.Tracer("findbugs-ci").Start(ctx, name,
		trace.WithAttributes(
			attribute.String("command", name),
			attribute.String("project", cfg.Project.Name),
			attribute.String("trace_id", app.TraceID),
		),
	)
	defer span.End()

	start := time.Now()
	handler, ok := command.Get(name)
	if !ok {
		err := apperrors.NewAppError(apperrors.ErrCommandNotFound, "неизвестная команда: "+name, nil)
		_ = shared.WriteError(app, name, start, err, apperrors.ErrCommandNotFound, nil)
		l.Error("Команда не найдена", "command", name, "available", command.Names())
		return constants.ExitCommandFailure
	}

	execErr := handler.Execute(ctx, app)
	recordMetrics(ctx, app, name, start, execErr == nil)

	if execErr != nil {
		span.RecordError(execErr)
		l.Error("Ошибка выполнения команды",
			"command", name,
			"code", apperrors.CodeOf(execErr, apperrors.ErrCommandExec),
			"error", execErr.Error(),
			"trace_id", app.TraceID,
		)
		return constants.ExitCommandFailure
	}
	return constants.ExitOK
}

// recordMetrics записывает итог команды и отправляет метрики в Pushgateway.
// Прерванный сигналом прогон тоже попадает в метрики, поэтому отмена ctx
// не распространяется на push. Ошибки push логируются коллектором.
func recordMetrics(ctx context.Context, app *di.App, name string, start time.Time, success bool) {
	app.MetricsCollector.RecordCommand(name, time.Since(start), success)
	_ = app.MetricsCollector.Push(context.WithoutCancel(ctx))
}
