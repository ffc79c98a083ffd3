package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("work item not found")
	ErrUnavailable = errors.New("tracker unavailable")
	ErrRateLimit   = errors.New("tracker rate limit exceeded")
)

// APIError is a failed tracker call.
type APIError struct {
	Service    string
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Service, e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is likely transient.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrRateLimit)
}
