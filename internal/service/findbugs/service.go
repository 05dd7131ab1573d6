// Package findbugs оркеструет один прогон анализа: сбор директорий классов,
// материализацию ресурсов, разрешение плагинов, запуск движка и
// интерпретацию отчёта.
package findbugs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Kargones/findbugs-ci/internal/adapter/history"
	"github.com/Kargones/findbugs-ci/internal/adapter/repository"
	"github.com/Kargones/findbugs-ci/internal/config"
	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/entity/analysis"
	"github.com/Kargones/findbugs-ci/internal/entity/resource"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/metrics"
	"github.com/Kargones/findbugs-ci/internal/pkg/progress"
	"github.com/Kargones/findbugs-ci/internal/pkg/tracing"
	"github.com/Kargones/findbugs-ci/internal/pkg/urlutil"
	"github.com/Kargones/findbugs-ci/internal/util/runner"
)

// Пояснения к вакуумному Clean.
const (
	NoteSkipped   = "analysis skipped"
	NoteNoClasses = "no classes to analyze"
)

// outcomeSkipped — метка метрики для пропущенного прогона.
const outcomeSkipped = "skipped"

// progressInterval — период Tick индикатора во время работы движка.
const progressInterval = time.Second

// Result — итог прогона для вывода команды.
type Result struct {
	Outcome   *analysis.Outcome
	ClassDirs []string
	Resources []*resource.Resolved
	Plugins   []string
	// CommandLine — командная строка движка с замаскированными секретами.
	CommandLine []string
	ExitCode    int
	Duration    time.Duration
	// XMLOutput — путь копии отчёта в xmlOutputDirectory.
	XMLOutput string
	Warnings  []string
}

// Option настраивает Service.
type Option func(*Service)

// WithMetrics задаёт коллектор метрик.
func WithMetrics(c metrics.Collector) Option {
	return func(s *Service) { s.metrics = c }
}

// WithJournal задаёт журнал прогонов.
func WithJournal(j history.Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithResolver задаёт резолвер плагинов вместо MavenResolver из конфигурации.
func WithResolver(r repository.Resolver) Option {
	return func(s *Service) { s.resolver = r }
}

// WithRunner задаёт исполнитель движка.
func WithRunner(r *runner.Runner) Option {
	return func(s *Service) { s.runner = r }
}

// WithProgress задаёт индикатор прогресса.
func WithProgress(p progress.Progress) Option {
	return func(s *Service) { s.progress = p }
}

// WithTraceID задаёт trace id для журнала.
func WithTraceID(id string) Option {
	return func(s *Service) { s.traceID = id }
}

// Service выполняет прогоны анализа для одной конфигурации.
type Service struct {
	cfg      *config.Config
	logger   logging.Logger
	metrics  metrics.Collector
	journal  history.Journal
	resolver repository.Resolver
	runner   *runner.Runner
	progress progress.Progress
	traceID  string
}

// NewService создаёт Service. Незаданные зависимости заменяются no-op
// реализациями, runner строится из engine-секции конфигурации.
func NewService(cfg *config.Config, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	s := &Service{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.NopCollector{},
		journal:  history.Nop{},
		progress: progress.Noop{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = runner.New(&runner.ExecEngine{
			Java:      cfg.Engine.JavaExecutable,
			Classpath: cfg.EngineClasspath(),
			MainClass: cfg.Engine.MainClass,
		}, logger)
	}
	return s
}

// Run выполняет прогон.
//
// Ошибки настройки (ресурс не найден, плагин не разрешён, неверный параметр)
// возвращаются до запуска движка, Result при этом nil. Сбой выполнения при
// failOnError возвращает Result с ExecutionFailed и *analysis.ExecutionError.
func (s *Service) Run(ctx context.Context) (result *Result, err error) {
	cfg := s.cfg
	if cfg.Analysis.Skip {
		s.logger.Info("Анализ пропущен", "reason", "analysis.skip")
		s.metrics.RecordAnalysis(outcomeSkipped, 0, 0)
		return &Result{Outcome: analysis.Clean(NoteSkipped)}, nil
	}

	ctx, span := tracing.StartSpan(ctx, "findbugs.analyze", attribute.String("project", cfg.Project.Name))
	defer func() { tracing.EndSpan(span, err) }()

	started := time.Now()

	classDirs, err := s.collectClassDirs()
	if err != nil {
		return nil, err
	}
	if len(classDirs) == 0 {
		s.logger.Info("Нет директорий классов для анализа",
			"class_dir", cfg.Path(cfg.Project.ClassFilesDirectory),
		)
		s.metrics.RecordAnalysis(outcomeSkipped, 0, 0)
		return &Result{Outcome: analysis.Clean(NoteNoClasses)}, nil
	}
	s.logger.Info("Директории классов собраны", "class_dirs", classDirs)

	if err := s.prepareWorkDir(); err != nil {
		return nil, err
	}

	res, resolved, err := s.resolveResources(ctx)
	if err != nil {
		return nil, err
	}
	plugins, err := s.resolvePlugins(ctx)
	if err != nil {
		return nil, err
	}

	spec, err := analysis.Build(cfg.AnalysisSettings(classDirs), res, plugins)
	if err != nil {
		return nil, err
	}
	if err := prepareReport(spec.ReportPath()); err != nil {
		return nil, err
	}

	result = &Result{
		ClassDirs:   classDirs,
		Resources:   resolved,
		Plugins:     plugins,
		CommandLine: urlutil.MaskArgs(analysis.CommandLine(spec)),
	}

	raw := s.execute(ctx, spec)
	result.ExitCode = raw.ExitCode
	result.Duration = raw.Duration

	outcome, runErr := s.interpret(ctx, raw, spec.ReportPath())
	result.Outcome = outcome
	if outcome.Diagnostic != "" {
		result.Warnings = append(result.Warnings, outcome.Diagnostic)
	}

	if runErr == nil && cfg.Report.XMLOutput {
		p, copyErr := copyReport(spec.ReportPath(), cfg.XMLOutputDir())
		switch {
		case copyErr != nil:
			s.logger.Warn("Не удалось скопировать XML отчёт", "error", copyErr.Error())
			result.Warnings = append(result.Warnings, "xml output: "+copyErr.Error())
		case p != "":
			result.XMLOutput = p
		}
	}

	s.record(ctx, started, outcome, raw)
	return result, runErr
}

func (s *Service) prepareWorkDir() error {
	dir := s.cfg.WorkDir()
	if s.cfg.Resources.CleanWorkDir {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("не удалось очистить рабочую директорию %s: %w", dir, err)
		}
	}
	if err := os.MkdirAll(dir, constants.DirPermStandard); err != nil {
		return fmt.Errorf("не удалось создать рабочую директорию %s: %w", dir, err)
	}
	return nil
}

// prepareReport удаляет отчёт предыдущего прогона: иначе неуспешный движок,
// не записавший отчёт, выглядел бы как прогон со старыми находками.
func prepareReport(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermStandard); err != nil {
		return fmt.Errorf("не удалось создать директорию отчёта: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("не удалось удалить старый отчёт %s: %w", path, err)
	}
	return nil
}

func (s *Service) execute(ctx context.Context, spec *analysis.RunSpec) analysis.RawOutcome {
	fork := s.cfg.Analysis.Fork
	ctx, span := tracing.StartSpan(ctx, "findbugs.run",
		attribute.Bool("fork", fork),
		attribute.Int("max_heap_mb", spec.HeapMB()),
		attribute.Int("timeout_ms", spec.TimeoutMillis()),
	)

	var raw analysis.RawOutcome
	progress.Track(ctx, s.progress, "Анализ байткода", progressInterval, func() bool {
		raw = s.runner.Run(ctx, spec, fork, spec.HeapMB(), spec.TimeoutMillis())
		return raw.Succeeded()
	})

	var spanErr error
	if raw.Failure != nil {
		spanErr = raw.Failure
	}
	tracing.EndSpan(span, spanErr)
	return raw
}

func (s *Service) interpret(ctx context.Context, raw analysis.RawOutcome, reportPath string) (*analysis.Outcome, error) {
	_, span := tracing.StartSpan(ctx, "findbugs.interpret")
	outcome, err := analysis.Interpret(raw, reportPath, s.cfg.Analysis.FailOnError)
	tracing.EndSpan(span, err)

	switch {
	case err != nil:
		s.logger.Error("Анализ завершился сбоем", "error", err.Error())
	case outcome.Diagnostic != "":
		s.logger.Warn("Сбой анализа проигнорирован: failOnError=false", "diagnostic", outcome.Diagnostic)
	case outcome.Kind == analysis.OutcomeIssuesFound:
		s.logger.Info("Найдены дефекты", "findings", outcome.Findings, "report", outcome.ReportPath)
	default:
		s.logger.Info("Дефекты не найдены")
	}
	return outcome, err
}

// record пишет прогон в журнал и метрики. Ошибка журнала не влияет на итог.
func (s *Service) record(ctx context.Context, started time.Time, outcome *analysis.Outcome, raw analysis.RawOutcome) {
	s.metrics.RecordAnalysis(string(outcome.Kind), raw.Duration, outcome.Findings)

	entry := history.Entry{
		Project:   s.cfg.Project.Name,
		Outcome:   string(outcome.Kind),
		Findings:  outcome.Findings,
		ExitCode:  raw.ExitCode,
		Duration:  raw.Duration,
		TraceID:   s.traceID,
		StartedAt: started,
	}
	switch {
	case outcome.Failure != nil:
		entry.Diagnostic = outcome.Failure.Error()
	case outcome.Diagnostic != "":
		entry.Diagnostic = outcome.Diagnostic
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Warn("Не удалось записать прогон в журнал", "error", err.Error())
	}
}
