package config

import (
	"github.com/Kargones/findbugs-ci/internal/entity/analysis"
	"github.com/Kargones/findbugs-ci/internal/pkg/logging"
	"github.com/Kargones/findbugs-ci/internal/pkg/metrics"
	"github.com/Kargones/findbugs-ci/internal/pkg/tracing"
)

// AnalysisSettings собирает analysis.Settings для заданных директорий классов.
// Директории классов определяются на этапе прогона, поэтому передаются извне.
func (c *Config) AnalysisSettings(classDirs []string) analysis.Settings {
	a := c.Analysis
	return analysis.Settings{
		Effort:          analysis.Effort(a.Effort),
		Threshold:       analysis.Threshold(a.Threshold),
		MaxRank:         a.MaxRank,
		MaxHeapMB:       a.MaxHeap,
		TimeoutMillis:   a.Timeout,
		Debug:           a.Debug,
		Relaxed:         a.Relaxed,
		Nested:          a.Nested,
		Trace:           a.Trace,
		Visitors:        a.Visitors,
		OmitVisitors:    a.OmitVisitors,
		OnlyAnalyze:     a.OnlyAnalyze,
		JVMArgs:         a.JVMArgs,
		ExtraArgs:       append([]string(nil), a.ExtraArgs...),
		ProjectName:     c.Project.Name,
		ClassDirs:       append([]string(nil), classDirs...),
		AuxClasspath:    c.paths(c.Project.AuxClasspath),
		SourceRoots:     c.paths(c.Project.SourceRoots),
		ReportPath:      c.ReportPath(),
		JavaExecutable:  c.Engine.JavaExecutable,
		EngineClasspath: c.EngineClasspath(),
		MainClass:       c.Engine.MainClass,
	}
}

func (c *Config) paths(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		out = append(out, c.Path(p))
	}
	return out
}

// EngineClasspath возвращает classpath движка, разрешённый относительно BaseDir.
func (c *Config) EngineClasspath() []string {
	return c.paths(c.Engine.Classpath)
}

// SearchRoots возвращает корни classpath-поиска ресурсов.
func (c *Config) SearchRoots() []string {
	return c.paths(c.Resources.SearchRoots)
}

// LoggingSettings конвертирует секцию logging в logging.Config.
func (c *Config) LoggingSettings() logging.Config {
	l := c.Logging
	return logging.Config{
		Format:     l.Format,
		Level:      l.Level,
		Output:     l.Output,
		FilePath:   l.FilePath,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
	}
}

// MetricsSettings конвертирует секцию metrics в metrics.Config.
func (c *Config) MetricsSettings() metrics.Config {
	m := c.Metrics
	return metrics.Config{
		Enabled:        m.Enabled,
		PushgatewayURL: m.PushgatewayURL,
		JobName:        m.JobName,
		Timeout:        m.Timeout,
		InstanceLabel:  m.InstanceLabel,
		Project:        c.Project.Name,
	}
}

// TracingSettings конвертирует секцию tracing в tracing.Config.
func (c *Config) TracingSettings(version string) tracing.Config {
	t := c.Tracing
	return tracing.Config{
		Enabled:      t.Enabled,
		Endpoint:     t.Endpoint,
		ServiceName:  t.ServiceName,
		Version:      version,
		Environment:  t.Environment,
		Insecure:     t.Insecure,
		Timeout:      t.Timeout,
		SamplingRate: t.SamplingRate,
	}
}
