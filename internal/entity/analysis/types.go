// Package analysis models one static-analysis run: the validated invocation
// (RunSpec), the raw result of executing the engine (RawOutcome) and its
// classification (Outcome).
package analysis

import (
	"strconv"
	"time"
)

// Effort is the engine's thoroughness level.
type Effort string

const (
	EffortMin     Effort = "Min"
	EffortDefault Effort = "Default"
	EffortMax     Effort = "Max"
)

// Threshold is the minimum finding severity included in the report.
type Threshold string

const (
	ThresholdHigh    Threshold = "High"
	ThresholdDefault Threshold = "Default"
	ThresholdLow     Threshold = "Low"
	ThresholdIgnore  Threshold = "Ignore"
	ThresholdExp     Threshold = "Exp"
)

// MaxRankCeiling is the largest bug rank the engine knows.
const MaxRankCeiling = 20

// Settings is the configuration half of a run. It is produced once from the
// loaded configuration and passed by value.
type Settings struct {
	Effort    Effort
	Threshold Threshold
	// MaxRank of 0 means no ranking ceiling.
	MaxRank int

	MaxHeapMB     int
	TimeoutMillis int

	Debug   bool
	Relaxed bool
	Nested  bool
	Trace   bool

	Visitors     string
	OmitVisitors string
	OnlyAnalyze  string

	// JVMArgs is split on whitespace when the engine is forked.
	JVMArgs   string
	ExtraArgs []string

	ProjectName  string
	ClassDirs    []string
	AuxClasspath []string
	SourceRoots  []string

	// ReportPath is where the engine writes its XML report.
	ReportPath string

	JavaExecutable  string
	EngineClasspath []string
	MainClass       string
}

// Resources holds paths of materialized resources. Empty fields mean the
// feature is absent.
type Resources struct {
	IncludeFilter string
	ExcludeFilter string
	ExcludeBugs   []string
	PluginList    []string
}

// FailureKind distinguishes the ways a run can fail after it was set up.
type FailureKind string

const (
	FailureNonZeroExit      FailureKind = "non_zero_exit"
	FailureTimeout          FailureKind = "timeout_exceeded"
	FailureLaunch           FailureKind = "launch_failure"
	FailureReportUnreadable FailureKind = "report_unreadable"
)

// Failure describes why a run did not complete.
type Failure struct {
	Kind FailureKind
	// ExitCode is set for FailureNonZeroExit.
	ExitCode int
	Err      error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureNonZeroExit:
		return "analysis engine exited with code " + strconv.Itoa(f.ExitCode)
	case FailureTimeout:
		return "analysis engine exceeded its timeout and was killed"
	case FailureLaunch:
		if f.Err != nil {
			return "analysis engine could not be launched: " + f.Err.Error()
		}
		return "analysis engine could not be launched"
	case FailureReportUnreadable:
		if f.Err != nil {
			return "analysis report is unreadable: " + f.Err.Error()
		}
		return "analysis report is unreadable"
	}
	return string(f.Kind)
}

func (f *Failure) Unwrap() error { return f.Err }

// RawOutcome is what the runner observed. Failure is nil when the engine
// exited with status 0. Output is nil after a timeout.
type RawOutcome struct {
	Failure  *Failure
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// Succeeded reports whether the engine ran to completion with status 0.
func (r RawOutcome) Succeeded() bool { return r.Failure == nil }
