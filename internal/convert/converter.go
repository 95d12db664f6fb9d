package convert

import (
	"context"

	"github.com/ronpik/website-fetch/internal/config"
	"github.com/ronpik/website-fetch/internal/llm"
	"github.com/ronpik/website-fetch/internal/mdconvert"
)

// Converter decides, per call, which of the three conversion layers
// run and executes them. One Converter is built per crawl from its
// Config and shared LLM provider.
type Converter struct {
	provider           llm.Provider
	hasProvider        bool
	mode               config.Mode
	configuredStrategy config.ConversionStrategy
	customConverter    config.CustomConverter
	optimizeConversion bool
	maxIterations      int
	model              string
}

func New(cfg config.Config) *Converter {
	provider := cfg.LLMProvider()
	_, isNop := provider.(llm.NopProvider)

	return &Converter{
		provider:           provider,
		hasProvider:        provider != nil && !isNop,
		mode:               cfg.Mode(),
		configuredStrategy: cfg.ConversionStrategy(),
		customConverter:    cfg.CustomConverter(),
		optimizeConversion: cfg.OptimizeConversion(),
		maxIterations:      cfg.MaxOptimizeIterations(),
		model:              cfg.Model(),
	}
}

// Convert runs the façade decision tree from §4.10 over a single
// page's HTML and returns the resulting Markdown.
func (c *Converter) Convert(ctx context.Context, htmlContent, pageURL string) (string, error) {
	defaultStrategy, selectorEnabled, optimizerEnabled := config.ModeDefaults(c.mode)

	strategy := mdconvert.Strategy(c.configuredStrategy)
	if strategy == "" {
		strategy = mdconvert.Strategy(defaultStrategy)
	}

	switch {
	case strategy == mdconvert.StrategyCustom:
		// bypass Layer 2 entirely

	case selectorEnabled && c.hasProvider:
		fallback := mdconvert.Strategy(defaultStrategy)
		strategy = selectStrategy(ctx, c.provider, htmlContent, pageURL, c.model, fallback)

	default:
		// explicitly configured strategy, or the mode default, stands as-is
	}

	markdown, err := mdconvert.Run(strategy, htmlContent, pageURL, mdconvert.CustomFunc(c.customConverter))
	if err != nil {
		return "", err
	}

	if (optimizerEnabled || c.optimizeConversion) && c.hasProvider {
		markdown = optimize(ctx, c.provider, htmlContent, markdown, c.model, c.maxIterations)
	}

	return markdown, nil
}
