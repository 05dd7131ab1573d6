package analysis

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Kargones/findbugs-ci/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() Settings {
	return Settings{
		Effort:          EffortDefault,
		Threshold:       ThresholdDefault,
		MaxHeapMB:       512,
		TimeoutMillis:   600000,
		ClassDirs:       []string{"target/classes"},
		ReportPath:      "target/findbugsXml.xml",
		JavaExecutable:  "java",
		EngineClasspath: []string{"lib/findbugs.jar"},
		MainClass:       "edu.umd.cs.findbugs.FindBugs2",
	}
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Settings)
		wantField string
	}{
		{"unknown effort", func(s *Settings) { s.Effort = "Extreme" }, "effort"},
		{"lowercase effort", func(s *Settings) { s.Effort = "max" }, "effort"},
		{"unknown threshold", func(s *Settings) { s.Threshold = "Medium" }, "threshold"},
		{"negative maxRank", func(s *Settings) { s.MaxRank = -1 }, "maxRank"},
		{"maxRank above ceiling", func(s *Settings) { s.MaxRank = 21 }, "maxRank"},
		{"zero heap", func(s *Settings) { s.MaxHeapMB = 0 }, "maxHeap"},
		{"zero timeout", func(s *Settings) { s.TimeoutMillis = 0 }, "timeout"},
		{"no class dirs", func(s *Settings) { s.ClassDirs = nil }, "classFilesDirectory"},
		{"no report path", func(s *Settings) { s.ReportPath = "" }, "reportPath"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)

			spec, err := Build(s, Resources{}, nil)
			require.Error(t, err)
			assert.Nil(t, spec)

			var invalid *InvalidConfigurationError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.wantField, invalid.Field)
			assert.Equal(t, apperrors.ErrConfigInvalidField, apperrors.CodeOf(err, ""))
		})
	}
}

func TestBuild_AcceptsAllEnumValues(t *testing.T) {
	for _, e := range []Effort{EffortMin, EffortDefault, EffortMax} {
		for _, th := range []Threshold{ThresholdHigh, ThresholdDefault, ThresholdLow, ThresholdIgnore, ThresholdExp} {
			s := validSettings()
			s.Effort, s.Threshold = e, th
			_, err := Build(s, Resources{}, nil)
			assert.NoError(t, err, "%s/%s", e, th)
		}
	}
	s := validSettings()
	s.MaxRank = 20
	_, err := Build(s, Resources{}, nil)
	assert.NoError(t, err)
}

func TestBuild_EngineArgs(t *testing.T) {
	s := validSettings()
	s.Threshold = ThresholdLow
	s.Effort = EffortMax
	s.MaxRank = 15
	s.ProjectName = "petclinic"
	s.Relaxed = true
	s.OnlyAnalyze = "org.example.-"
	s.AuxClasspath = []string{"a.jar", "b.jar"}
	s.ExtraArgs = []string{"-bugCategories", "CORRECTNESS"}
	res := Resources{
		IncludeFilter: "/w/include.xml",
		ExcludeFilter: "/w/exclude.xml",
		ExcludeBugs:   []string{"/w/baseline1.xml", "/w/baseline2.xml"},
		PluginList:    []string{"/w/fb-contrib.jar"},
	}

	spec, err := Build(s, res, []string{"/m2/sb-contrib.jar"})
	require.NoError(t, err)

	sep := string(filepath.ListSeparator)
	assert.Equal(t, []string{
		"-xml:withMessages", "-output", "target/findbugsXml.xml",
		"-projectName", "petclinic",
		"-low", "-effort:max",
		"-maxRank", "15",
		"-include", "/w/include.xml",
		"-exclude", "/w/exclude.xml",
		"-excludeBugs", "/w/baseline1.xml",
		"-excludeBugs", "/w/baseline2.xml",
		"-pluginList", "/w/fb-contrib.jar" + sep + "/m2/sb-contrib.jar",
		"-onlyAnalyze", "org.example.-",
		"-nested:false",
		"-relaxed",
		"-auxclasspath", "a.jar" + sep + "b.jar",
		"-bugCategories", "CORRECTNESS",
		"-noClassOk",
		"target/classes",
	}, spec.EngineArgs())
}

func TestBuild_NestedFlag(t *testing.T) {
	spec, err := Build(validSettings(), Resources{}, nil)
	require.NoError(t, err)
	assert.Contains(t, spec.EngineArgs(), "-nested:false")

	s := validSettings()
	s.Nested = true
	spec, err = Build(s, Resources{}, nil)
	require.NoError(t, err)
	assert.NotContains(t, spec.EngineArgs(), "-nested:false")
}

func TestBuild_ThresholdMapping(t *testing.T) {
	want := map[Threshold]string{
		ThresholdHigh:    "-high",
		ThresholdDefault: "-medium",
		ThresholdLow:     "-low",
		ThresholdExp:     "-experimental",
		ThresholdIgnore:  "-experimental",
	}
	for th, flag := range want {
		s := validSettings()
		s.Threshold = th
		spec, err := Build(s, Resources{}, nil)
		require.NoError(t, err)
		assert.Contains(t, spec.EngineArgs(), flag)
	}
}

func TestBuild_SpecIsImmutable(t *testing.T) {
	s := validSettings()
	plugins := []string{"p.jar"}
	spec, err := Build(s, Resources{ExcludeBugs: []string{"x.xml"}}, plugins)
	require.NoError(t, err)

	s.ClassDirs[0] = "mutated"
	plugins[0] = "mutated"
	spec.ClassDirs()[0] = "mutated"
	spec.Filters().ExcludeBugs[0] = "mutated"
	spec.EngineArgs()[0] = "mutated"

	assert.Equal(t, []string{"target/classes"}, spec.ClassDirs())
	assert.Equal(t, []string{"p.jar"}, spec.Plugins())
	assert.Equal(t, []string{"x.xml"}, spec.Filters().ExcludeBugs)
	assert.Equal(t, "-xml:withMessages", spec.EngineArgs()[0])
}

func TestCommandLine(t *testing.T) {
	s := validSettings()
	s.JVMArgs = "-XX:+UseG1GC  -Dfile.encoding=UTF-8"
	s.Debug = true
	spec, err := Build(s, Resources{}, nil)
	require.NoError(t, err)

	cl := CommandLine(spec)
	assert.Equal(t, []string{
		"java", "-Xmx512m", "-XX:+UseG1GC", "-Dfile.encoding=UTF-8", "-Dfindbugs.debug=true",
		"-cp", "lib/findbugs.jar", "edu.umd.cs.findbugs.FindBugs2",
	}, cl[:8])
	assert.Equal(t, spec.EngineArgs(), cl[8:])
}
