// Package analyze реализует команду analyze: один прогон статического
// анализа байткода проекта. Устаревшее имя findbugs сохранено как алиас.
package analyze

import (
	"context"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/Kargones/findbugs-ci/internal/command"
	"github.com/Kargones/findbugs-ci/internal/command/handlers/shared"
	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/di"
	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"
	"github.com/Kargones/findbugs-ci/internal/pkg/dryrun"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
	"github.com/Kargones/findbugs-ci/internal/pkg/progress"
	"github.com/Kargones/findbugs-ci/internal/pkg/urlutil"
	"github.com/Kargones/findbugs-ci/internal/service/findbugs"
)

// RegisterCmd регистрирует analyze и устаревший алиас findbugs.
func RegisterCmd() error {
	return command.RegisterWithAlias(&Handler{}, constants.ActFindbugsLegacy)
}

// Handler обрабатывает команду analyze.
type Handler struct {
	// opts применяются после зависимостей из App.
	opts []findbugs.Option
}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActAnalyze
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Статический анализ байткода проекта"
}

// Execute выполняет прогон анализа, либо при FB_DRY_RUN выводит его план.
//
// Ошибки настройки возвращаются без Data; сбой движка при failOnError
// возвращается вместе с Data прогона.
func (h *Handler) Execute(ctx context.Context, app *di.App) error {
	start := time.Now()
	logger := app.Logger.With("command", constants.ActAnalyze, "trace_id", app.TraceID)
	svc := h.newService(app, logger)

	if dryrun.IsDryRun() {
		return h.writePlan(app, svc, start)
	}

	logger.Info("Запуск анализа", "project", app.Config.Project.Name)
	res, err := svc.Run(ctx)
	if res == nil {
		if err == nil {
			err = apperrors.NewAppError(apperrors.ErrCommandExec, "прогон не вернул результат", nil)
		}
		return shared.WriteError(app, constants.ActAnalyze, start, err, apperrors.ErrCommandExec, nil)
	}

	data := buildData(res)
	if err != nil {
		return shared.WriteError(app, constants.ActAnalyze, start, err, apperrors.ErrAnalysisExecution, data)
	}

	result := &output.Result{
		Status:   output.StatusSuccess,
		Command:  constants.ActAnalyze,
		Data:     data,
		Metadata: shared.Metadata(app, start),
		Summary:  buildSummary(res),
	}
	return shared.Write(app, result)
}

func (h *Handler) newService(app *di.App, logger logging.Logger) *findbugs.Service {
	format := output.FormatText
	if app.IsJSON() {
		format = output.FormatJSON
	}
	var budget time.Duration
	if app.Config.Analysis.Fork {
		budget = time.Duration(app.Config.Analysis.Timeout) * time.Millisecond
	}
	p := progress.New(os.Getenv(constants.EnvProgress), format, progress.Options{
		Budget: budget,
		Logger: logger,
	})

	opts := []findbugs.Option{
		findbugs.WithMetrics(app.MetricsCollector),
		findbugs.WithJournal(app.History),
		findbugs.WithProgress(p),
		findbugs.WithTraceID(app.TraceID),
	}
	return findbugs.NewService(app.Config, logger, append(opts, h.opts...)...)
}

func (h *Handler) writePlan(app *di.App, svc *findbugs.Service, start time.Time) error {
	plan, err := svc.Plan(constants.ActAnalyze)
	if err != nil {
		return shared.WriteError(app, constants.ActAnalyze, start, err, apperrors.ErrConfigValidate, nil)
	}
	return shared.Write(app, &output.Result{
		Status:   output.StatusSuccess,
		Command:  constants.ActAnalyze,
		DryRun:   true,
		Plan:     plan,
		Metadata: shared.Metadata(app, start),
	})
}

// Data — результат прогона в выводе команды.
type Data struct {
	Outcome    string         `json:"outcome"`
	Findings   int            `json:"findings"`
	ByPriority map[string]int `json:"by_priority,omitempty"`
	ByCategory map[string]int `json:"by_category,omitempty"`
	ReportPath string         `json:"report_path,omitempty"`
	XMLOutput  string         `json:"xml_output,omitempty"`
	// Note поясняет Clean без запуска движка.
	Note string `json:"note,omitempty"`
	// Diagnostic — сбой, проигнорированный при failOnError=false.
	Diagnostic string `json:"diagnostic,omitempty"`
	Failure    string `json:"failure,omitempty"`

	ExitCode         int            `json:"exit_code"`
	EngineDurationMs int64          `json:"engine_duration_ms"`
	ClassDirs        []string       `json:"class_dirs,omitempty"`
	Resources        []ResourceInfo `json:"resources,omitempty"`
	Plugins          []string       `json:"plugins,omitempty"`
	CommandLine      []string       `json:"command_line,omitempty"`
}

// ResourceInfo описывает материализованный ресурс.
type ResourceInfo struct {
	Reference string `json:"reference"`
	Path      string `json:"path"`
	Strategy  string `json:"strategy"`
	Origin    string `json:"origin,omitempty"`
	Size      int64  `json:"size"`
}

func buildData(res *findbugs.Result) *Data {
	o := res.Outcome
	d := &Data{
		Outcome:          string(o.Kind),
		Findings:         o.Findings,
		ReportPath:       o.ReportPath,
		XMLOutput:        res.XMLOutput,
		Note:             o.Note,
		Diagnostic:       o.Diagnostic,
		ExitCode:         res.ExitCode,
		EngineDurationMs: res.Duration.Milliseconds(),
		ClassDirs:        res.ClassDirs,
		Plugins:          res.Plugins,
		CommandLine:      res.CommandLine,
	}
	if o.Summary != nil {
		d.ByPriority = o.Summary.ByPriority
		d.ByCategory = o.Summary.ByCategory
	}
	if o.Failure != nil {
		d.Failure = o.Failure.Error()
	}
	for _, r := range res.Resources {
		d.Resources = append(d.Resources, ResourceInfo{
			Reference: urlutil.RedactUserinfo(string(r.Reference)),
			Path:      r.Path,
			Strategy:  r.Strategy,
			Origin:    r.Origin,
			Size:      r.Size,
		})
	}
	return d
}

func buildSummary(res *findbugs.Result) *output.SummaryInfo {
	s := output.NewSummaryInfo()
	s.AddMetric("Итог", string(res.Outcome.Kind), "")
	s.AddMetric("Дефектов", strconv.Itoa(res.Outcome.Findings), "")
	if sum := res.Outcome.Summary; sum != nil {
		for _, p := range sortedKeys(sum.ByPriority) {
			s.AddMetric("Приоритет "+p, strconv.Itoa(sum.ByPriority[p]), "")
		}
	}
	if len(res.ClassDirs) > 0 {
		s.AddMetric("Директорий классов", strconv.Itoa(len(res.ClassDirs)), "")
	}
	if len(res.Resources) > 0 {
		s.AddMetric("Ресурсов", strconv.Itoa(len(res.Resources)), "")
	}
	if len(res.Plugins) > 0 {
		s.AddMetric("Плагинов", strconv.Itoa(len(res.Plugins)), "")
	}
	if res.Outcome.Note != "" {
		s.AddWarning(res.Outcome.Note)
	}
	for _, w := range res.Warnings {
		s.AddWarning(w)
	}
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
