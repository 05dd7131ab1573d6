package analysis

import "slices"

// RunSpec is the immutable, validated invocation of the engine.
// Accessors return copies; a RunSpec never changes after Build.
type RunSpec struct {
	classDirs  []string
	filters    Resources
	plugins    []string
	threshold  Threshold
	effort     Effort
	maxRank    int
	heapMB     int
	timeoutMS  int
	reportPath string
	jvmArgs    []string
	engineArgs []string
	java       string
	classpath  []string
	mainClass  string
}

func (s *RunSpec) ClassDirs() []string { return slices.Clone(s.classDirs) }

func (s *RunSpec) Plugins() []string { return slices.Clone(s.plugins) }

func (s *RunSpec) Threshold() Threshold { return s.threshold }

func (s *RunSpec) Effort() Effort { return s.effort }

func (s *RunSpec) MaxRank() int { return s.maxRank }

func (s *RunSpec) HeapMB() int { return s.heapMB }

func (s *RunSpec) TimeoutMillis() int { return s.timeoutMS }

func (s *RunSpec) ReportPath() string { return s.reportPath }

func (s *RunSpec) JavaExecutable() string { return s.java }

func (s *RunSpec) MainClass() string { return s.mainClass }

// Filters returns the materialized filter resources.
func (s *RunSpec) Filters() Resources {
	f := s.filters
	f.ExcludeBugs = slices.Clone(f.ExcludeBugs)
	f.PluginList = slices.Clone(f.PluginList)
	return f
}

// JVMArgs are the extra JVM options, used only when forked.
func (s *RunSpec) JVMArgs() []string { return slices.Clone(s.jvmArgs) }

// EngineClasspath is the classpath of the forked engine JVM.
func (s *RunSpec) EngineClasspath() []string { return slices.Clone(s.classpath) }

// EngineArgs are the arguments passed to the engine's main entry point.
func (s *RunSpec) EngineArgs() []string { return slices.Clone(s.engineArgs) }
