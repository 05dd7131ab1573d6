package analysis

// Interpret classifies a RawOutcome.
//
// A failed run (including an unreadable report) yields an ExecutionFailed
// outcome together with *ExecutionError when failOnError is set; otherwise
// it yields Clean with Diagnostic describing the failure. A successful run
// with an absent, empty or finding-free report is Clean; one or more
// findings is IssuesFound.
func Interpret(raw RawOutcome, reportPath string, failOnError bool) (*Outcome, error) {
	if raw.Failure != nil {
		return degrade(raw.Failure, failOnError)
	}

	sum, err := readReport(reportPath)
	if err != nil {
		return degrade(&Failure{Kind: FailureReportUnreadable, Err: err}, failOnError)
	}
	if sum == nil || sum.Findings == 0 {
		out := Clean("")
		out.Summary = sum
		return out, nil
	}
	return IssuesFound(reportPath, sum), nil
}

func degrade(f *Failure, failOnError bool) (*Outcome, error) {
	if failOnError {
		return ExecutionFailed(f), &ExecutionError{Failure: f}
	}
	out := Clean("")
	out.Diagnostic = f.Error()
	return out, nil
}
