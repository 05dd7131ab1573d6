package analysis

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

var thresholdFlags = map[Threshold]string{
	ThresholdHigh:    "-high",
	ThresholdDefault: "-medium",
	ThresholdLow:     "-low",
	ThresholdExp:     "-experimental",
	ThresholdIgnore:  "-experimental",
}

var effortFlags = map[Effort]string{
	EffortMin:     "-effort:min",
	EffortDefault: "-effort:default",
	EffortMax:     "-effort:max",
}

// Build validates settings and assembles the RunSpec. It performs no I/O.
// plugins are resolved plugin jars; they are appended to res.PluginList.
func Build(settings Settings, res Resources, plugins []string) (*RunSpec, error) {
	if err := validate(settings); err != nil {
		return nil, err
	}

	allPlugins := slices.Concat(res.PluginList, plugins)

	filters := res
	filters.ExcludeBugs = slices.Clone(res.ExcludeBugs)
	filters.PluginList = slices.Clone(res.PluginList)

	spec := &RunSpec{
		classDirs:  slices.Clone(settings.ClassDirs),
		filters:    filters,
		plugins:    slices.Clone(plugins),
		threshold:  settings.Threshold,
		effort:     settings.Effort,
		maxRank:    settings.MaxRank,
		heapMB:     settings.MaxHeapMB,
		timeoutMS:  settings.TimeoutMillis,
		reportPath: settings.ReportPath,
		jvmArgs:    jvmArgs(settings),
		engineArgs: engineArgs(settings, res, allPlugins),
		java:       settings.JavaExecutable,
		classpath:  slices.Clone(settings.EngineClasspath),
		mainClass:  settings.MainClass,
	}
	return spec, nil
}

func validate(s Settings) error {
	if _, ok := effortFlags[s.Effort]; !ok {
		return &InvalidConfigurationError{Field: "effort", Value: string(s.Effort), Reason: "must be one of Min, Default, Max"}
	}
	if _, ok := thresholdFlags[s.Threshold]; !ok {
		return &InvalidConfigurationError{Field: "threshold", Value: string(s.Threshold), Reason: "must be one of High, Default, Low, Ignore, Exp"}
	}
	if s.MaxRank < 0 || s.MaxRank > MaxRankCeiling {
		return &InvalidConfigurationError{Field: "maxRank", Value: strconv.Itoa(s.MaxRank), Reason: "must be absent or between 1 and 20"}
	}
	if s.MaxHeapMB <= 0 {
		return &InvalidConfigurationError{Field: "maxHeap", Value: strconv.Itoa(s.MaxHeapMB), Reason: "must be positive"}
	}
	if s.TimeoutMillis <= 0 {
		return &InvalidConfigurationError{Field: "timeout", Value: strconv.Itoa(s.TimeoutMillis), Reason: "must be positive"}
	}
	if len(s.ClassDirs) == 0 {
		return &InvalidConfigurationError{Field: "classFilesDirectory", Reason: "at least one class directory is required"}
	}
	if s.ReportPath == "" {
		return &InvalidConfigurationError{Field: "reportPath", Reason: "must not be empty"}
	}
	if s.MainClass == "" {
		return &InvalidConfigurationError{Field: "engine.mainClass", Reason: "must not be empty"}
	}
	return nil
}

func jvmArgs(s Settings) []string {
	args := strings.Fields(s.JVMArgs)
	if s.Debug {
		args = append(args, "-Dfindbugs.debug=true")
	}
	return args
}

func engineArgs(s Settings, res Resources, plugins []string) []string {
	args := []string{"-xml:withMessages", "-output", s.ReportPath}
	if s.ProjectName != "" {
		args = append(args, "-projectName", s.ProjectName)
	}
	args = append(args, thresholdFlags[s.Threshold], effortFlags[s.Effort])
	if s.MaxRank > 0 {
		args = append(args, "-maxRank", strconv.Itoa(s.MaxRank))
	}
	if res.IncludeFilter != "" {
		args = append(args, "-include", res.IncludeFilter)
	}
	if res.ExcludeFilter != "" {
		args = append(args, "-exclude", res.ExcludeFilter)
	}
	for _, f := range res.ExcludeBugs {
		args = append(args, "-excludeBugs", f)
	}
	if len(plugins) > 0 {
		args = append(args, "-pluginList", JoinClasspath(plugins))
	}
	if s.Visitors != "" {
		args = append(args, "-visitors", s.Visitors)
	}
	if s.OmitVisitors != "" {
		args = append(args, "-omitVisitors", s.OmitVisitors)
	}
	if s.OnlyAnalyze != "" {
		args = append(args, "-onlyAnalyze", s.OnlyAnalyze)
	}
	if !s.Nested {
		args = append(args, "-nested:false")
	}
	if s.Relaxed {
		args = append(args, "-relaxed")
	}
	if s.Trace {
		args = append(args, "-progress")
	}
	if len(s.AuxClasspath) > 0 {
		args = append(args, "-auxclasspath", JoinClasspath(s.AuxClasspath))
	}
	if len(s.SourceRoots) > 0 {
		args = append(args, "-sourcepath", JoinClasspath(s.SourceRoots))
	}
	args = append(args, s.ExtraArgs...)
	args = append(args, "-noClassOk")
	return append(args, s.ClassDirs...)
}

// CommandLine renders the forked command line with the spec's own heap
// ceiling. Used for dry-run plans and logs.
func CommandLine(spec *RunSpec) []string {
	return ForkArgs(spec, spec.heapMB)
}

// ForkArgs renders the forked command line:
// java -Xmx<heap>m <jvmArgs> -cp <classpath> <main> <engineArgs>.
func ForkArgs(spec *RunSpec, heapMB int) []string {
	args := []string{spec.java, "-Xmx" + strconv.Itoa(heapMB) + "m"}
	args = append(args, spec.jvmArgs...)
	if len(spec.classpath) > 0 {
		args = append(args, "-cp", JoinClasspath(spec.classpath))
	}
	args = append(args, spec.mainClass)
	return append(args, spec.engineArgs...)
}

// JoinClasspath joins classpath entries with the platform list separator.
func JoinClasspath(entries []string) string {
	return strings.Join(entries, string(filepath.ListSeparator))
}
