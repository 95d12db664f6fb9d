package llm

import "context"

// NopProvider always fails, standing in for "no LLM configured" so
// call sites exercise their documented fallback path uniformly instead
// of special-casing a nil Provider.
type NopProvider struct{}

func (NopProvider) Invoke(ctx context.Context, prompt string, opts Options) (string, error) {
	return "", &Error{CallSite: opts.CallSite, Underlying: errNoProvider}
}

func (NopProvider) InvokeStructured(ctx context.Context, prompt string, schema any, opts Options, out any) error {
	return &Error{CallSite: opts.CallSite, Underlying: errNoProvider}
}

var errNoProvider = errNoProviderConfigured{}

type errNoProviderConfigured struct{}

func (errNoProviderConfigured) Error() string { return "no llm provider configured" }
