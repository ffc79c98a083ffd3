package app

import "fmt"

// SkippedItem is an input left out of a run, with the reason.
type SkippedItem struct {
	ID     string
	Title  string
	Reason string
}

// ItemFailure is a tracker write that failed for one item. Failures are
// collected so one bad item does not abort the run.
type ItemFailure struct {
	ID  string
	Op  string
	Err error
}

func (f ItemFailure) String() string {
	return fmt.Sprintf("%s #%s: %v", f.Op, f.ID, f.Err)
}

type ErrorCode string

const (
	ErrNoItems      ErrorCode = "NO_ITEMS"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrTracker      ErrorCode = "TRACKER_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// UseCaseError is returned by use cases when the caller can act on the code.
type UseCaseError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *UseCaseError) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *UseCaseError) Unwrap() error { return e.Err }
