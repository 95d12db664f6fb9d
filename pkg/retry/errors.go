package retry

import (
	"fmt"

	"github.com/ronpik/website-fetch/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseZeroAttempts ErrorCause = "zero attempts configured"
	ErrCauseExhausted    ErrorCause = "attempts exhausted"
)

type Error struct {
	Message   string
	Retryable bool
	Cause     ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("retry: %s: %s", e.Cause, e.Message)
}

func (e *Error) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *Error) IsRetryable() bool { return e.Retryable }
