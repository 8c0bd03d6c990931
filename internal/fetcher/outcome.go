package fetcher

import "github.com/billyoftea/shefradar/internal/model"

// Status is the terminal state of one source in a run.
type Status string

const (
	// StatusSuccess means the source produced a record set, possibly
	// an empty one.
	StatusSuccess Status = "success"
	// StatusDisabled means the source was intentionally turned off.
	// Not an error.
	StatusDisabled Status = "disabled"
	// StatusFailure means the fetch ended with a classified error.
	StatusFailure Status = "failure"
)

// Outcome is the result of exactly one source in one run. Immutable
// once produced.
type Outcome struct {
	Status  Status
	Records model.RecordSet
	Err     *Error
}

// Success wraps a record set in a successful outcome.
func Success(records model.RecordSet) Outcome {
	return Outcome{Status: StatusSuccess, Records: records}
}

// Disabled marks a source that was configured off.
func Disabled() Outcome {
	return Outcome{Status: StatusDisabled}
}

// Failure wraps a classified error in a failed outcome.
func Failure(err *Error) Outcome {
	return Outcome{Status: StatusFailure, Err: err}
}
