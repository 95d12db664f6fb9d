// Package llm abstracts the single capability every LLM-backed call site
// in this crawler needs: turn a prompt, optionally constrained by a JSON
// schema, into text or a structured value. The concrete client
// (github.com/anthropics/anthropic-sdk-go) lives behind this interface so
// that call sites, the strategy selector, the optimizer, and the agent
// loop never depend on it directly.
package llm

import (
	"context"
	"time"
)

// Options controls a single Invoke/InvokeStructured call. CallSite names
// a logical location (e.g. "link-classifier-batch", "page-summarizer",
// "strategy-selector") so a caller can override model/timeout per site
// without threading extra parameters through every call.
type Options struct {
	CallSite string
	Model    string
	Timeout  time.Duration
}

// DefaultTimeout is applied when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

func (o Options) timeoutOrDefault() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// WithTimeout returns ctx bound to o's configured timeout (or
// DefaultTimeout), plus the cancel function the caller must release.
func (o Options) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.timeoutOrDefault())
}

// Provider is the abstract LLM capability every call site uses.
// InvokeStructured sends schema to the model with the prompt and
// unmarshals the model's JSON output into out. The parsed value is not
// checked against schema; only JSON decoding errors are reported.
type Provider interface {
	Invoke(ctx context.Context, prompt string, opts Options) (string, error)
	InvokeStructured(ctx context.Context, prompt string, schema any, opts Options, out any) error
}
