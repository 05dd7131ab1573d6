package findbugs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Kargones/findbugs-ci/internal/adapter/repository"
	"github.com/Kargones/findbugs-ci/internal/constants"
	"github.com/Kargones/findbugs-ci/internal/entity/analysis"
	"github.com/Kargones/findbugs-ci/internal/pkg/dryrun"
	"github.com/Kargones/findbugs-ci/internal/pkg/output"
	"github.com/Kargones/findbugs-ci/internal/pkg/urlutil"
)

// Plan строит план прогона без материализации ресурсов, разрешения
// плагинов и запуска движка. Ссылки на ресурсы и координаты плагинов
// подставляются в командную строку как есть.
func (s *Service) Plan(command string) (*output.Plan, error) {
	cfg := s.cfg
	if cfg.Analysis.Skip {
		plan := dryrun.NewPlan(command, nil)
		plan.AddSkipped("analyze", "analysis.skip=true")
		plan.Summary = NoteSkipped
		return plan, nil
	}

	classDirs, err := s.collectClassDirs()
	if err != nil {
		return nil, err
	}
	coords, err := repository.ParseCoordinates(cfg.Analysis.Plugins)
	if err != nil {
		return nil, &analysis.InvalidConfigurationError{Field: "analysis.plugins", Value: strings.Join(cfg.Analysis.Plugins, ","), Reason: err.Error()}
	}

	settings := cfg.AnalysisSettings(classDirs)
	if len(classDirs) == 0 {
		// командная строка всё равно полезна для отладки конфигурации
		settings.ClassDirs = []string{cfg.Path(cfg.Project.ClassFilesDirectory)}
	}
	a := cfg.Analysis
	refs := analysis.Resources{
		IncludeFilter: a.IncludeFilterFile,
		ExcludeFilter: a.ExcludeFilterFile,
		ExcludeBugs:   splitList(a.ExcludeBugsFile),
		PluginList:    splitList(a.PluginList),
	}
	pluginPaths := make([]string, 0, len(coords))
	for _, c := range coords {
		pluginPaths = append(pluginPaths, filepath.Join(cfg.Path(cfg.Repository.Local), filepath.FromSlash(c.RelPath())))
	}
	spec, err := analysis.Build(settings, refs, pluginPaths)
	if err != nil {
		return nil, err
	}

	plan := dryrun.NewPlan(command, analysis.CommandLine(spec))
	plan.AddStep("collect-classes", map[string]any{"class_dirs": strings.Join(classDirs, ", ")})
	if len(classDirs) == 0 {
		plan.AddSkipped("run-engine", NoteNoClasses)
		plan.Summary = NoteNoClasses
		return plan, nil
	}

	plan.AddStep("prepare-work-dir", map[string]any{"path": cfg.WorkDir(), "clean": cfg.Resources.CleanWorkDir})

	if refCount := countRefs(refs); refCount > 0 {
		plan.AddStep("resolve-resources", map[string]any{
			"include":      urlutil.RedactUserinfo(refs.IncludeFilter),
			"exclude":      urlutil.RedactUserinfo(refs.ExcludeFilter),
			"exclude_bugs": redactAll(refs.ExcludeBugs),
			"plugin_list":  redactAll(refs.PluginList),
			"strategies":   "classpath, url, file",
			"empty_policy": a.EmptyResource,
		})
	} else {
		plan.AddSkipped("resolve-resources", "нет ссылок на ресурсы")
	}

	if len(coords) > 0 {
		names := make([]string, 0, len(coords))
		for _, c := range coords {
			names = append(names, c.String())
		}
		plan.AddStep("resolve-plugins", map[string]any{
			"coordinates": strings.Join(names, ", "),
			"local":       cfg.Path(cfg.Repository.Local),
			"remotes":     redactAll(cfg.Repository.Remotes),
			"verify":      cfg.Repository.VerifySignatures,
		})
	} else {
		plan.AddSkipped("resolve-plugins", "плагины не заданы")
	}

	plan.AddStep("run-engine", map[string]any{
		"fork":        a.Fork,
		"max_heap_mb": spec.HeapMB(),
		"timeout_ms":  spec.TimeoutMillis(),
		"report":      spec.ReportPath(),
	})
	plan.AddStep("interpret-report", map[string]any{"fail_on_error": a.FailOnError})

	if cfg.Report.XMLOutput {
		plan.AddStep("copy-xml-output", map[string]any{
			"dest": filepath.Join(cfg.XMLOutputDir(), constants.ReportFileName),
		})
	}
	if cfg.History.Enabled {
		plan.AddStep("record-history", map[string]any{"server": cfg.History.Server, "database": cfg.History.Database})
	}

	plan.Summary = fmt.Sprintf("%d директорий классов, %d ресурсов, %d плагинов", len(classDirs), countRefs(refs), len(coords))
	return plan, nil
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func countRefs(r analysis.Resources) int {
	n := len(r.ExcludeBugs) + len(r.PluginList)
	if r.IncludeFilter != "" {
		n++
	}
	if r.ExcludeFilter != "" {
		n++
	}
	return n
}

func redactAll(refs []string) string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, urlutil.RedactUserinfo(r))
	}
	return strings.Join(out, ", ")
}
