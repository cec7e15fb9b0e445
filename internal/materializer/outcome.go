package materializer

// Status is the terminal state of a single materialization attempt.
type Status int

const (
	StatusCopied Status = iota
	StatusSkipped
	StatusFailed
)

// String returns the lowercase status label.
func (s Status) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome reports what happened to a single file, with the reason for
// skips and the error for failures.
type Outcome struct {
	Status Status
	Reason string
	Err    error
}

// Copied marks a successful materialization.
func Copied() Outcome {
	return Outcome{Status: StatusCopied}
}

// Skipped marks a deliberate no-op with its reason.
func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

// Failed marks a materialization error.
func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}
