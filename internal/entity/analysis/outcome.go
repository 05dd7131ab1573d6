package analysis

// OutcomeKind tags the variant held by Outcome.
type OutcomeKind string

const (
	OutcomeClean           OutcomeKind = "clean"
	OutcomeIssuesFound     OutcomeKind = "issues_found"
	OutcomeExecutionFailed OutcomeKind = "failed"
)

// Outcome is the classified result of one invocation.
// Produced once per run and not modified afterwards.
type Outcome struct {
	Kind OutcomeKind

	// ReportPath and Findings are set for OutcomeIssuesFound.
	ReportPath string
	Findings   int
	Summary    *ReportSummary

	// Failure is set for OutcomeExecutionFailed.
	Failure *Failure

	// Diagnostic records a failure downgraded to Clean because
	// failOnError was off.
	Diagnostic string

	// Note explains a vacuous Clean (skip, nothing to analyze).
	Note string
}

// Clean returns a Clean outcome with an optional note.
func Clean(note string) *Outcome {
	return &Outcome{Kind: OutcomeClean, Note: note}
}

// IssuesFound returns an IssuesFound outcome.
func IssuesFound(reportPath string, sum *ReportSummary) *Outcome {
	return &Outcome{Kind: OutcomeIssuesFound, ReportPath: reportPath, Findings: sum.Findings, Summary: sum}
}

// ExecutionFailed returns an ExecutionFailed outcome.
func ExecutionFailed(f *Failure) *Outcome {
	return &Outcome{Kind: OutcomeExecutionFailed, Failure: f}
}
