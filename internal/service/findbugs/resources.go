package findbugs

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Kargones/findbugs-ci/internal/adapter/repository"
	"github.com/Kargones/findbugs-ci/internal/entity/analysis"
	"github.com/Kargones/findbugs-ci/internal/entity/resource"
	"github.com/Kargones/findbugs-ci/internal/pkg/tracing"
)

// maxPluginRetries — повторы загрузки плагина из удалённого репозитория.
const maxPluginRetries = 2

// newLocator собирает стратегии classpath → url → file из конфигурации.
// Возвращённая функция закрывает открытые jar-архивы.
func (s *Service) newLocator() (*resource.Locator, func() error, error) {
	cfg := s.cfg
	cp, err := resource.OpenClasspath(cfg.SearchRoots())
	if err != nil {
		return nil, nil, err
	}
	strategies := resource.DefaultStrategies(
		cp,
		resource.NewURLStrategy(cfg.Resources.HTTPTimeout),
		&resource.FileStrategy{BaseDir: cfg.Project.BaseDir},
	)
	loc := resource.NewLocator(strategies,
		resource.WithLogger(s.logger),
		resource.WithMetrics(s.metrics),
		resource.WithEmptyPolicy(resource.EmptyPolicy(cfg.Analysis.EmptyResource)),
	)
	return loc, cp.Close, nil
}

// resolveResources материализует фильтры, baseline и plugin list в рабочую
// директорию. Первый же ненайденный ресурс прерывает прогон.
func (s *Service) resolveResources(ctx context.Context) (res analysis.Resources, resolved []*resource.Resolved, err error) {
	a := s.cfg.Analysis
	if a.IncludeFilterFile == "" && a.ExcludeFilterFile == "" && a.ExcludeBugsFile == "" && a.PluginList == "" {
		return res, nil, nil
	}

	ctx, span := tracing.StartSpan(ctx, "findbugs.resolve_resources")
	defer func() { tracing.EndSpan(span, err) }()

	loc, closeFn, err := s.newLocator()
	if err != nil {
		return res, nil, err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil {
			s.logger.Warn("Не удалось закрыть classpath", "error", cerr.Error())
		}
	}()

	dest := s.cfg.WorkDir()

	include, err := loc.Resolve(ctx, resource.Reference(a.IncludeFilterFile), dest)
	if err != nil {
		return res, nil, err
	}
	exclude, err := loc.Resolve(ctx, resource.Reference(a.ExcludeFilterFile), dest)
	if err != nil {
		return res, nil, err
	}
	bugs, err := loc.ResolveList(ctx, a.ExcludeBugsFile, dest)
	if err != nil {
		return res, nil, err
	}
	pluginList, err := loc.ResolveList(ctx, a.PluginList, dest)
	if err != nil {
		return res, nil, err
	}

	res = analysis.Resources{
		IncludeFilter: resource.PathOf(include),
		ExcludeFilter: resource.PathOf(exclude),
		ExcludeBugs:   resource.Paths(bugs),
		PluginList:    resource.Paths(pluginList),
	}
	for _, r := range []*resource.Resolved{include, exclude} {
		if r != nil {
			resolved = append(resolved, r)
		}
	}
	resolved = append(resolved, bugs...)
	resolved = append(resolved, pluginList...)

	span.SetAttributes(attribute.Int("resources", len(resolved)))
	return res, resolved, nil
}

// resolvePlugins разрешает координаты analysis.plugins в пути jar-файлов
// в порядке конфигурации.
func (s *Service) resolvePlugins(ctx context.Context) (paths []string, err error) {
	coords, err := repository.ParseCoordinates(s.cfg.Analysis.Plugins)
	if err != nil {
		return nil, &analysis.InvalidConfigurationError{Field: "analysis.plugins", Value: strings.Join(s.cfg.Analysis.Plugins, ","), Reason: err.Error()}
	}
	if len(coords) == 0 {
		return nil, nil
	}

	ctx, span := tracing.StartSpan(ctx, "findbugs.resolve_plugins", attribute.Int("plugins", len(coords)))
	defer func() { tracing.EndSpan(span, err) }()

	resolver := s.resolver
	if resolver == nil {
		resolver, err = s.mavenResolver()
		if err != nil {
			return nil, err
		}
	}

	found, err := resolver.Resolve(ctx, coords)
	if err != nil {
		return nil, err
	}
	paths = make([]string, 0, len(coords))
	for _, c := range coords {
		paths = append(paths, found[c])
	}
	s.logger.Info("Плагины разрешены", "plugins", paths)
	return paths, nil
}

func (s *Service) mavenResolver() (*repository.MavenResolver, error) {
	r := s.cfg.Repository
	return repository.NewMavenResolver(repository.Config{
		Local:            s.cfg.Path(r.Local),
		Remotes:          r.Remotes,
		Keyring:          s.cfg.Path(r.Keyring),
		VerifySignatures: r.VerifySignatures,
		HTTPTimeout:      s.cfg.Resources.HTTPTimeout,
		MaxRetries:       maxPluginRetries,
	}, s.logger)
}
