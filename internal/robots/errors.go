package robots

import (
	"fmt"

	"github.com/ronpik/website-fetch/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseFetchFailure  ErrorCause = "failed to fetch robots.txt"
	ErrCauseUnexpectedStatus ErrorCause = "unexpected http status"
)

// Error classifies a robots.txt fetch failure. The Cache does not
// return it: a failed or non-200 fetch falls back to allow-all
// directly, so it has no Retryable distinction worth exposing.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("robots: %s: %s", e.Cause, e.Message)
}

func (e *Error) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
