// Package cli is the thin cobra front end: it parses flags and builds a
// config.Config; running the crawl is left to cmd/website-fetch. Argument parsing and
// flag wiring are the out-of-scope collaborator the specification
// calls "interfaced only" — this package stays a translation layer.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/ronpik/website-fetch/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile            string
	url                string
	mode               string
	description        string
	maxDepth           int
	maxPages           int
	includePatterns    []string
	excludePatterns    []string
	pathPrefix         string
	outputDir          string
	outputStructure    string
	singleFile         bool
	generateIndex      bool
	conversionStrategy string
	optimizeConversion bool
	delay              time.Duration
	concurrency        int
	respectRobots      bool
	adaptiveRateLimit  bool
	cookieFile         string
	linkClassification string
	llmConfigFile      string
	model              string
	downloadAssets     bool
	maxAssetSize       int64
)

var rootCmd = &cobra.Command{
	Use:   "website-fetch",
	Short: "Crawl a website and convert its pages to Markdown.",
	Long: `website-fetch crawls a website rooted at a start URL, fetches
HTML pages, converts each to Markdown, and writes the result to a local
output tree. Three modes share a common fetch/convert/write core but
differ in how link-following decisions are made: simple (rule-based
BFS), smart (BFS with LLM link classification), and agent (a tool-driven
LLM conversation).`,
	RunE: runCrawl,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "JSON config file path")
	rootCmd.PersistentFlags().StringVar(&url, "url", "", "root URL to crawl (required)")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "simple", "crawl mode: simple, smart, agent")
	rootCmd.PersistentFlags().StringVar(&description, "description", "", "crawl goal text (required for smart/agent)")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "maximum BFS depth from the root (default 5)")
	rootCmd.PersistentFlags().IntVar(&maxPages, "max-pages", 0, "maximum number of pages to fetch (default 100)")
	rootCmd.PersistentFlags().StringArrayVar(&includePatterns, "include", nil, "glob pattern pages must match (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&excludePatterns, "exclude", nil, "glob pattern excluding matching pages (repeatable)")
	rootCmd.PersistentFlags().StringVar(&pathPrefix, "path-prefix", "", "restrict crawl to paths under this prefix")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "root output directory (default ./output)")
	rootCmd.PersistentFlags().StringVar(&outputStructure, "output-structure", "", "output layout: mirror or flat")
	rootCmd.PersistentFlags().BoolVar(&singleFile, "single-file", false, "also aggregate all pages into one Markdown file")
	rootCmd.PersistentFlags().BoolVar(&generateIndex, "generate-index", true, "write an INDEX.md at the output root")
	rootCmd.PersistentFlags().StringVar(&conversionStrategy, "strategy", "", "base conversion strategy: default or readability")
	rootCmd.PersistentFlags().BoolVar(&optimizeConversion, "optimize", false, "force the LLM optimization pass regardless of mode")
	rootCmd.PersistentFlags().DurationVar(&delay, "delay", 0, "baseline per-host delay (default 200ms)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "fetch worker pool width (default 3)")
	rootCmd.PersistentFlags().BoolVar(&respectRobots, "respect-robots", true, "honor robots.txt")
	rootCmd.PersistentFlags().BoolVar(&adaptiveRateLimit, "adaptive-rate-limit", true, "adapt delay to 429/backoff signals")
	rootCmd.PersistentFlags().StringVar(&cookieFile, "cookie-file", "", "Netscape-format cookie file")
	rootCmd.PersistentFlags().StringVar(&linkClassification, "link-classification", "", "smart mode link classifier: batch or per-link")
	rootCmd.PersistentFlags().StringVar(&llmConfigFile, "llm-config", "", "LLM provider config file")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "override model name at every call site")
	rootCmd.PersistentFlags().BoolVar(&downloadAssets, "download-assets", false, "download images referenced by converted pages into outputDir/assets")
	rootCmd.PersistentFlags().Int64Var(&maxAssetSize, "max-asset-size", 0, "maximum asset size in bytes (default 10MiB)")
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := BuildConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "crawling %s in %s mode (maxDepth=%d maxPages=%d)\n",
		cfg.URL(), cfg.Mode(), cfg.MaxDepth(), cfg.MaxPages())
	fmt.Fprintf(cmd.OutOrStdout(), "output: %s (%s)\n", cfg.OutputDir(), cfg.OutputStructure())

	// Wiring the crawler engine, LLM provider, and observer is left to
	// cmd/website-fetch, which owns process-level concerns (signal
	// handling, exit codes) this package stays agnostic to.
	return nil
}

// BuildConfig assembles a config.Config from either --config-file or the
// individual flags, mirroring docs-crawler's InitConfigWithError split so
// callers (and tests) can exercise config construction without invoking
// the full command.
func BuildConfig() (config.Config, error) {
	if cfgFile != "" {
		return config.WithConfigFile(cfgFile)
	}

	if url == "" {
		return config.Config{}, fmt.Errorf("--url is required")
	}

	builder := config.WithDefault(url)

	if mode != "" {
		builder = builder.WithMode(config.Mode(mode))
	}
	if description != "" {
		builder = builder.WithDescription(description)
	}
	if maxDepth > 0 {
		builder = builder.WithMaxDepth(maxDepth)
	}
	if maxPages > 0 {
		builder = builder.WithMaxPages(maxPages)
	}
	if len(includePatterns) > 0 {
		builder = builder.WithIncludePatterns(includePatterns)
	}
	if len(excludePatterns) > 0 {
		builder = builder.WithExcludePatterns(excludePatterns)
	}
	if pathPrefix != "" {
		builder = builder.WithPathPrefix(pathPrefix)
	}
	if outputDir != "" {
		builder = builder.WithOutputDir(outputDir)
	}
	if outputStructure != "" {
		builder = builder.WithOutputStructure(config.OutputStructure(outputStructure))
	}
	if singleFile {
		builder = builder.WithSingleFile(true)
	}
	builder = builder.WithGenerateIndex(generateIndex)
	if conversionStrategy != "" {
		builder = builder.WithConversionStrategy(config.ConversionStrategy(conversionStrategy))
	}
	if optimizeConversion {
		builder = builder.WithOptimizeConversion(true)
	}
	if delay > 0 {
		builder = builder.WithDelay(delay)
	}
	if concurrency > 0 {
		builder = builder.WithConcurrency(concurrency)
	}
	builder = builder.WithRespectRobots(respectRobots)
	builder = builder.WithAdaptiveRateLimit(adaptiveRateLimit)
	if cookieFile != "" {
		builder = builder.WithCookieFile(cookieFile)
	}
	if linkClassification != "" {
		builder = builder.WithLinkClassification(config.LinkClassification(linkClassification))
	}
	if llmConfigFile != "" {
		builder = builder.WithLLMConfigFile(llmConfigFile)
	}
	if model != "" {
		builder = builder.WithModel(model)
	}
	if downloadAssets {
		builder = builder.WithDownloadAssets(true)
	}
	if maxAssetSize > 0 {
		builder = builder.WithMaxAssetSize(maxAssetSize)
	}

	return builder.Build()
}

// ResetFlags restores every package-level flag var to its flag default.
// Exercised by tests that call BuildConfig repeatedly in one process.
func ResetFlags() {
	cfgFile = ""
	url = ""
	mode = "simple"
	description = ""
	maxDepth = 0
	maxPages = 0
	includePatterns = nil
	excludePatterns = nil
	pathPrefix = ""
	outputDir = ""
	outputStructure = ""
	singleFile = false
	generateIndex = true
	conversionStrategy = ""
	optimizeConversion = false
	delay = 0
	concurrency = 0
	respectRobots = true
	adaptiveRateLimit = true
	cookieFile = ""
	linkClassification = ""
	llmConfigFile = ""
	model = ""
	downloadAssets = false
	maxAssetSize = 0
}
