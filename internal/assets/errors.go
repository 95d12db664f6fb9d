package assets

import (
	"fmt"

	"github.com/ronpik/website-fetch/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseNetwork      ErrorCause = "network"
	ErrCauseHTTPStatus   ErrorCause = "http status"
	ErrCauseTooLarge     ErrorCause = "asset too large"
	ErrCauseWriteFailure ErrorCause = "write failure"
	ErrCauseHashFailure  ErrorCause = "hash failure"
)

// Error is the single variant every asset-download failure wraps, with
// Retryable mirroring whether the underlying cause is worth a retry
// attempt (a 5xx or a transient network error is, a 4xx or an
// oversized asset is not).
type Error struct {
	URL        string
	Cause      ErrorCause
	Retryable  bool
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("asset %s: %s: %v", e.URL, e.Cause, e.Underlying)
	}
	return fmt.Sprintf("asset %s: %s", e.URL, e.Cause)
}

func (e *Error) Unwrap() error { return e.Underlying }

func (e *Error) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *Error) IsRetryable() bool { return e.Retryable }
