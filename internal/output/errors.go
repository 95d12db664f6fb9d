package output

import (
	"fmt"

	"github.com/ronpik/website-fetch/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseWriteFailure ErrorCause = "write failed"
	ErrCausePathError    ErrorCause = "path error"
)

// Error is raised by a failed page write. Always recoverable: the
// crawler records the page as skipped and continues.
type Error struct {
	Path       string
	Cause      ErrorCause
	Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("output write %s: %s: %v", e.Path, e.Cause, e.Underlying)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func (e *Error) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
