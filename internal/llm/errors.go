package llm

import (
	"fmt"

	"github.com/ronpik/website-fetch/pkg/failure"
)

// Error wraps any failure raised by a Provider call. Every call site in
// this crawler treats an LLM failure as recoverable: fall back to a
// sensible default and keep going, never abort the crawl.
type Error struct {
	CallSite   string
	Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm %s: %v", e.CallSite, e.Underlying)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func (e *Error) Severity() failure.Severity {
	return failure.SeverityRecoverable
}
