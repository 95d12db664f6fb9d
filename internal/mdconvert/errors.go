package mdconvert

import (
	"fmt"

	"github.com/ronpik/website-fetch/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseConversionFailure ErrorCause = "conversion failed"
)

// Error wraps any failure a conversion strategy raises. Strategy
// failures are always recoverable: the caller records the page as
// skipped and moves on, never aborting the crawl.
type Error struct {
	Message    string
	Cause      ErrorCause
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("mdconvert: %s: %v", e.Cause, e.Underlying)
	}
	return fmt.Sprintf("mdconvert: %s: %s", e.Cause, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func (e *Error) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
