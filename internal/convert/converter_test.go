package convert_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ronpik/website-fetch/internal/config"
	"github.com/ronpik/website-fetch/internal/convert"
	"github.com/ronpik/website-fetch/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	invokeFn           func(prompt string, opts llm.Options) (string, error)
	invokeStructuredFn func(prompt string, out any, opts llm.Options) error
}

func (f *fakeProvider) Invoke(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	if f.invokeFn == nil {
		return "", errors.New("unexpected Invoke call")
	}
	return f.invokeFn(prompt, opts)
}

func (f *fakeProvider) InvokeStructured(ctx context.Context, prompt string, schema any, opts llm.Options, out any) error {
	if f.invokeStructuredFn == nil {
		return errors.New("unexpected InvokeStructured call")
	}
	return f.invokeStructuredFn(prompt, out, opts)
}

func buildConfig(t *testing.T, mode config.Mode, provider llm.Provider) config.Config {
	t.Helper()
	builder := config.WithDefault("https://example.com").WithMode(mode)
	if mode != config.ModeSimple {
		builder = builder.WithDescription("docs for testing")
	}
	if provider != nil {
		builder = builder.WithLLMProvider(provider)
	}
	cfg, err := builder.Build()
	require.NoError(t, err)
	return cfg
}

func TestConverter_SimpleModeUsesDefaultStrategyNoLLM(t *testing.T) {
	cfg := buildConfig(t, config.ModeSimple, nil)
	c := convert.New(cfg)

	out, err := c.Convert(context.Background(), "<h1>Hi</h1>", "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "# Hi")
}

func TestConverter_SmartModeSelectorFallsBackOnLLMFailure(t *testing.T) {
	provider := &fakeProvider{
		invokeStructuredFn: func(prompt string, out any, opts llm.Options) error {
			return errors.New("model unavailable")
		},
	}
	cfg := buildConfig(t, config.ModeSmart, provider)
	c := convert.New(cfg)

	out, err := c.Convert(context.Background(), "<p>hello</p>", "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestConverter_CustomStrategyBypassesSelector(t *testing.T) {
	builder := config.WithDefault("https://example.com").
		WithMode(config.ModeSmart).
		WithDescription("docs").
		WithConversionStrategy(config.StrategyCustom).
		WithCustomConverter(func(html, pageURL string) (string, error) {
			return "custom-markdown", nil
		})
	cfg, err := builder.Build()
	require.NoError(t, err)

	c := convert.New(cfg)
	out, err := c.Convert(context.Background(), "<p>x</p>", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "custom-markdown", out)
}
