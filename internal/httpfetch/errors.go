package httpfetch

import (
	"fmt"

	"github.com/ronpik/website-fetch/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseRobotsDisallowed        ErrorCause = "robots disallowed"
	ErrCauseTooManyRedirects        ErrorCause = "too many redirects"
	ErrCauseTimeout                 ErrorCause = "timeout"
	ErrCauseHTTPError               ErrorCause = "http error"
	ErrCauseNonHTMLContent          ErrorCause = "non-html content"
	ErrCauseNetwork                 ErrorCause = "network"
	ErrCauseRedirectMissingLocation ErrorCause = "redirect missing location"
)

// Error is the single FetchError variant every fetch failure is wrapped
// in, carrying the originally requested URL and, when relevant, the
// HTTP status that triggered it.
type Error struct {
	URL        string
	Cause      ErrorCause
	StatusCode int
	Underlying error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Cause, e.StatusCode)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Cause, e.Underlying)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// Severity is recoverable: every fetch failure is recovered at the
// crawler and recorded as a skipped page, never fatal to the crawl.
func (e *Error) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
