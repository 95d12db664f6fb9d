// Package config builds the immutable Config a crawl runs from. Follows
// the docs-crawler convention: unexported fields, a WithDefault
// constructor, With* chain methods, and a final Build() that validates.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ronpik/website-fetch/internal/llm"
)

type Mode string

const (
	ModeSimple Mode = "simple"
	ModeSmart  Mode = "smart"
	ModeAgent  Mode = "agent"
)

type ConversionStrategy string

const (
	StrategyDefault     ConversionStrategy = "default"
	StrategyReadability ConversionStrategy = "readability"
	StrategyCustom      ConversionStrategy = "custom"
)

type OutputStructure string

const (
	OutputMirror OutputStructure = "mirror"
	OutputFlat   OutputStructure = "flat"
)

type LinkClassification string

const (
	ClassificationBatch   LinkClassification = "batch"
	ClassificationPerLink LinkClassification = "per-link"
)

// CustomConverter is the caller-supplied function used when
// ConversionStrategy is StrategyCustom. Errors propagate unchanged.
type CustomConverter func(html, pageURL string) (string, error)

type Config struct {
	//===============
	// Crawl scope
	//===============
	url         string
	mode        Mode
	description string

	//===============
	// Limits
	//===============
	maxDepth int
	maxPages int

	//===============
	// Link filters
	//===============
	includePatterns []string
	excludePatterns []string
	pathPrefix      string

	//===============
	// Output
	//===============
	outputDir       string
	outputStructure OutputStructure
	singleFile      bool
	generateIndex   bool

	//===============
	// Conversion
	//===============
	conversionStrategy ConversionStrategy
	customConverter    CustomConverter
	optimizeConversion bool
	maxOptimizeIters   int

	//===============
	// Politeness
	//===============
	delay             time.Duration
	concurrency       int
	respectRobots     bool
	adaptiveRateLimit bool
	maxRetries        int
	randomSeed        int64

	//===============
	// Request decoration
	//===============
	headers    map[string]string
	cookieFile string

	//===============
	// Smart mode
	//===============
	linkClassification LinkClassification

	//===============
	// LLM wiring
	//===============
	llmConfigFile string
	llmProvider   llm.Provider
	model         string

	//===============
	// Asset handling (expansion; see DESIGN.md)
	//===============
	downloadAssets bool
	maxAssetSize   int64
}

func WithDefault(url string) *Config {
	return &Config{
		url:                 url,
		mode:                ModeSimple,
		maxDepth:            5,
		maxPages:            100,
		outputDir:           "./output",
		outputStructure:     OutputMirror,
		generateIndex:       true,
		conversionStrategy:  StrategyDefault,
		maxOptimizeIters:    2,
		delay:               200 * time.Millisecond,
		concurrency:         3,
		respectRobots:       true,
		adaptiveRateLimit:   true,
		maxRetries:          3,
		randomSeed:          time.Now().UnixNano(),
		headers:             map[string]string{},
		linkClassification:  ClassificationBatch,
		downloadAssets:      false,
		maxAssetSize:        10 * 1024 * 1024,
	}
}

func (c *Config) WithMode(mode Mode) *Config {
	c.mode = mode
	return c
}

func (c *Config) WithDescription(description string) *Config {
	c.description = description
	return c
}

func (c *Config) WithMaxDepth(depth int) *Config {
	c.maxDepth = depth
	return c
}

func (c *Config) WithMaxPages(pages int) *Config {
	c.maxPages = pages
	return c
}

func (c *Config) WithIncludePatterns(patterns []string) *Config {
	c.includePatterns = patterns
	return c
}

func (c *Config) WithExcludePatterns(patterns []string) *Config {
	c.excludePatterns = patterns
	return c
}

func (c *Config) WithPathPrefix(prefix string) *Config {
	c.pathPrefix = prefix
	return c
}

func (c *Config) WithOutputDir(dir string) *Config {
	c.outputDir = dir
	return c
}

func (c *Config) WithOutputStructure(structure OutputStructure) *Config {
	c.outputStructure = structure
	return c
}

func (c *Config) WithSingleFile(singleFile bool) *Config {
	c.singleFile = singleFile
	return c
}

func (c *Config) WithGenerateIndex(generateIndex bool) *Config {
	c.generateIndex = generateIndex
	return c
}

func (c *Config) WithConversionStrategy(strategy ConversionStrategy) *Config {
	c.conversionStrategy = strategy
	return c
}

func (c *Config) WithCustomConverter(converter CustomConverter) *Config {
	c.customConverter = converter
	return c
}

func (c *Config) WithOptimizeConversion(optimize bool) *Config {
	c.optimizeConversion = optimize
	return c
}

func (c *Config) WithMaxOptimizeIterations(iterations int) *Config {
	c.maxOptimizeIters = iterations
	return c
}

func (c *Config) WithDelay(delay time.Duration) *Config {
	c.delay = delay
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithRespectRobots(respect bool) *Config {
	c.respectRobots = respect
	return c
}

func (c *Config) WithAdaptiveRateLimit(adaptive bool) *Config {
	c.adaptiveRateLimit = adaptive
	return c
}

func (c *Config) WithMaxRetries(retries int) *Config {
	c.maxRetries = retries
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithHeaders(headers map[string]string) *Config {
	c.headers = headers
	return c
}

func (c *Config) WithCookieFile(path string) *Config {
	c.cookieFile = path
	return c
}

func (c *Config) WithLinkClassification(classification LinkClassification) *Config {
	c.linkClassification = classification
	return c
}

func (c *Config) WithLLMConfigFile(path string) *Config {
	c.llmConfigFile = path
	return c
}

func (c *Config) WithLLMProvider(provider llm.Provider) *Config {
	c.llmProvider = provider
	return c
}

func (c *Config) WithModel(model string) *Config {
	c.model = model
	return c
}

// WithDownloadAssets enables the optional image-download pass (off by
// default, per the expansion's explicit opt-in requirement).
func (c *Config) WithDownloadAssets(download bool) *Config {
	c.downloadAssets = download
	return c
}

func (c *Config) WithMaxAssetSize(bytes int64) *Config {
	c.maxAssetSize = bytes
	return c
}

// Build validates the accumulated options and returns the immutable
// Config. Mirrors the taxonomy's ConfigError cases: invalid mode,
// missing description for smart/agent, custom strategy without a
// converter, agent mode without an LLM.
func (c *Config) Build() (Config, error) {
	if c.url == "" {
		return Config{}, fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}

	switch c.mode {
	case ModeSimple, ModeSmart, ModeAgent:
	default:
		return Config{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.mode)
	}

	if (c.mode == ModeSmart || c.mode == ModeAgent) && c.description == "" {
		return Config{}, fmt.Errorf("%w: description is required for mode %q", ErrInvalidConfig, c.mode)
	}

	if c.conversionStrategy == StrategyCustom && c.customConverter == nil {
		return Config{}, fmt.Errorf("%w: customConverter is required when conversionStrategy is custom", ErrInvalidConfig)
	}

	if c.mode == ModeAgent && c.llmProvider == nil && c.llmConfigFile == "" {
		return Config{}, fmt.Errorf("%w: agent mode requires llmProvider or llmConfig", ErrInvalidConfig)
	}

	if c.outputStructure == "" {
		c.outputStructure = OutputMirror
	}

	return *c, nil
}

type configDTO struct {
	URL                 string             `json:"url"`
	Mode                Mode               `json:"mode,omitempty"`
	Description         string             `json:"description,omitempty"`
	MaxDepth            int                `json:"maxDepth,omitempty"`
	MaxPages            int                `json:"maxPages,omitempty"`
	IncludePatterns     []string           `json:"includePatterns,omitempty"`
	ExcludePatterns     []string           `json:"excludePatterns,omitempty"`
	PathPrefix          string             `json:"pathPrefix,omitempty"`
	OutputDir           string             `json:"outputDir,omitempty"`
	OutputStructure     OutputStructure    `json:"outputStructure,omitempty"`
	SingleFile          bool               `json:"singleFile,omitempty"`
	GenerateIndex       *bool              `json:"generateIndex,omitempty"`
	ConversionStrategy  ConversionStrategy `json:"conversionStrategy,omitempty"`
	OptimizeConversion  bool               `json:"optimizeConversion,omitempty"`
	Delay               time.Duration      `json:"delay,omitempty"`
	Concurrency         int                `json:"concurrency,omitempty"`
	RespectRobots       *bool              `json:"respectRobots,omitempty"`
	AdaptiveRateLimit   *bool              `json:"adaptiveRateLimit,omitempty"`
	Headers             map[string]string  `json:"headers,omitempty"`
	CookieFile          string             `json:"cookieFile,omitempty"`
	LinkClassification  LinkClassification `json:"linkClassification,omitempty"`
	LLMConfigFile       string             `json:"llmConfig,omitempty"`
	Model               string             `json:"model,omitempty"`
	DownloadAssets      bool               `json:"downloadAssets,omitempty"`
	MaxAssetSize        int64              `json:"maxAssetSize,omitempty"`
}

// WithConfigFile loads a Config from a JSON file, applied over the
// defaults for dto.URL the same way docs-crawler overlays a configDTO
// onto WithDefault.
func WithConfigFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	var dto configDTO
	if err := json.Unmarshal(content, &dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}
	if dto.URL == "" {
		return Config{}, fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}

	builder := WithDefault(dto.URL)
	if dto.Mode != "" {
		builder = builder.WithMode(dto.Mode)
	}
	if dto.Description != "" {
		builder = builder.WithDescription(dto.Description)
	}
	if dto.MaxDepth != 0 {
		builder = builder.WithMaxDepth(dto.MaxDepth)
	}
	if dto.MaxPages != 0 {
		builder = builder.WithMaxPages(dto.MaxPages)
	}
	if len(dto.IncludePatterns) > 0 {
		builder = builder.WithIncludePatterns(dto.IncludePatterns)
	}
	if len(dto.ExcludePatterns) > 0 {
		builder = builder.WithExcludePatterns(dto.ExcludePatterns)
	}
	if dto.PathPrefix != "" {
		builder = builder.WithPathPrefix(dto.PathPrefix)
	}
	if dto.OutputDir != "" {
		builder = builder.WithOutputDir(dto.OutputDir)
	}
	if dto.OutputStructure != "" {
		builder = builder.WithOutputStructure(dto.OutputStructure)
	}
	if dto.SingleFile {
		builder = builder.WithSingleFile(true)
	}
	if dto.GenerateIndex != nil {
		builder = builder.WithGenerateIndex(*dto.GenerateIndex)
	}
	if dto.ConversionStrategy != "" {
		builder = builder.WithConversionStrategy(dto.ConversionStrategy)
	}
	if dto.OptimizeConversion {
		builder = builder.WithOptimizeConversion(true)
	}
	if dto.Delay != 0 {
		builder = builder.WithDelay(dto.Delay)
	}
	if dto.Concurrency != 0 {
		builder = builder.WithConcurrency(dto.Concurrency)
	}
	if dto.RespectRobots != nil {
		builder = builder.WithRespectRobots(*dto.RespectRobots)
	}
	if dto.AdaptiveRateLimit != nil {
		builder = builder.WithAdaptiveRateLimit(*dto.AdaptiveRateLimit)
	}
	if len(dto.Headers) > 0 {
		builder = builder.WithHeaders(dto.Headers)
	}
	if dto.CookieFile != "" {
		builder = builder.WithCookieFile(dto.CookieFile)
	}
	if dto.LinkClassification != "" {
		builder = builder.WithLinkClassification(dto.LinkClassification)
	}
	if dto.LLMConfigFile != "" {
		builder = builder.WithLLMConfigFile(dto.LLMConfigFile)
	}
	if dto.Model != "" {
		builder = builder.WithModel(dto.Model)
	}
	if dto.DownloadAssets {
		builder = builder.WithDownloadAssets(true)
	}
	if dto.MaxAssetSize != 0 {
		builder = builder.WithMaxAssetSize(dto.MaxAssetSize)
	}

	return builder.Build()
}

func (c Config) URL() string                              { return c.url }
func (c Config) Mode() Mode                                { return c.mode }
func (c Config) Description() string                       { return c.description }
func (c Config) MaxDepth() int                             { return c.maxDepth }
func (c Config) MaxPages() int                             { return c.maxPages }
func (c Config) IncludePatterns() []string                 { return append([]string(nil), c.includePatterns...) }
func (c Config) ExcludePatterns() []string                 { return append([]string(nil), c.excludePatterns...) }
func (c Config) PathPrefix() string                        { return c.pathPrefix }
func (c Config) OutputDir() string                         { return c.outputDir }
func (c Config) OutputStructure() OutputStructure          { return c.outputStructure }
func (c Config) SingleFile() bool                          { return c.singleFile }
func (c Config) GenerateIndex() bool                       { return c.generateIndex }
func (c Config) ConversionStrategy() ConversionStrategy     { return c.conversionStrategy }
func (c Config) CustomConverter() CustomConverter           { return c.customConverter }
func (c Config) OptimizeConversion() bool                   { return c.optimizeConversion }
func (c Config) MaxOptimizeIterations() int                 { return c.maxOptimizeIters }
func (c Config) Delay() time.Duration                       { return c.delay }
func (c Config) Concurrency() int                           { return c.concurrency }
func (c Config) RespectRobots() bool                        { return c.respectRobots }
func (c Config) AdaptiveRateLimit() bool                     { return c.adaptiveRateLimit }
func (c Config) MaxRetries() int                             { return c.maxRetries }
func (c Config) RandomSeed() int64                           { return c.randomSeed }
func (c Config) Headers() map[string]string {
	headers := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		headers[k] = v
	}
	return headers
}
func (c Config) CookieFile() string                        { return c.cookieFile }
func (c Config) LinkClassification() LinkClassification     { return c.linkClassification }
func (c Config) LLMConfigFile() string                      { return c.llmConfigFile }
func (c Config) LLMProvider() llm.Provider                  { return c.llmProvider }
func (c Config) Model() string                              { return c.model }
func (c Config) DownloadAssets() bool                       { return c.downloadAssets }
func (c Config) MaxAssetSize() int64                        { return c.maxAssetSize }

// WithResolvedLLMProvider attaches a provider resolved after Build() -
// e.g. one loaded from LLMConfigFile() by the entrypoint that owns
// process-level concerns like reading API keys off disk. Config stays
// immutable: this returns a copy rather than mutating c.
func (c Config) WithResolvedLLMProvider(provider llm.Provider) Config {
	c.llmProvider = provider
	return c
}

// WithResolvedModel attaches a model name resolved after Build() -
// e.g. the default baked into an LLMConfigFile() when --model wasn't
// passed explicitly. Config stays immutable: this returns a copy.
func (c Config) WithResolvedModel(model string) Config {
	c.model = model
	return c
}

// ModeDefaults returns the {baseStrategy, selectorEnabled, optimizerEnabled}
// triple for mode, per the converter façade's mode-default table.
func ModeDefaults(mode Mode) (strategy ConversionStrategy, selector bool, optimizer bool) {
	switch mode {
	case ModeSmart:
		return StrategyReadability, true, false
	case ModeAgent:
		return StrategyReadability, true, true
	default:
		return StrategyDefault, false, false
	}
}
