// Command website-fetch is the process entrypoint: it owns everything
// cli.BuildConfig stays agnostic to — reading the LLM provider off
// disk, wiring the structured-log sink, and reporting the crawl result
// with a process exit code.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ronpik/website-fetch/internal/cli"
	"github.com/ronpik/website-fetch/internal/config"
	"github.com/ronpik/website-fetch/internal/crawler"
	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/internal/llm"
	"github.com/ronpik/website-fetch/internal/metadata"
)

func main() {
	cfg, err := cli.BuildConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	cfg, err = resolveLLMProvider(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	sink := metadata.NewDlogSink()
	observer := &consoleObserver{}

	engine := crawler.New(cfg, observer, sink)
	result, err := engine.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Printf("fetched %d pages, skipped %d, in %dms\n",
		result.Stats().TotalPages, result.Stats().TotalSkipped, result.Stats().DurationMs)
	fmt.Printf("output written to %s\n", result.OutputDir())
	if result.IndexPath() != "" {
		fmt.Printf("index: %s\n", result.IndexPath())
	}
	if result.SingleFilePath() != "" {
		fmt.Printf("aggregate: %s\n", result.SingleFilePath())
	}
}

// resolveLLMProvider loads the provider named by cfg.LLMConfigFile(),
// falling back to NopProvider when neither a config file nor an
// in-process provider was supplied. Agent mode, the only mode that
// requires an LLM, already rejected a Config with neither at Build() time.
func resolveLLMProvider(cfg config.Config) (config.Config, error) {
	if cfg.LLMProvider() != nil {
		return cfg, nil
	}
	if cfg.LLMConfigFile() == "" {
		return cfg.WithResolvedLLMProvider(llm.NopProvider{}), nil
	}

	provider, model, err := llm.LoadProviderFromFile(cfg.LLMConfigFile())
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.WithResolvedLLMProvider(provider)
	if cfg.Model() == "" && model != "" {
		cfg = cfg.WithResolvedModel(model)
	}
	return cfg, nil
}

type consoleObserver struct{}

func (o *consoleObserver) OnPageFetched(page crawlmodel.FetchedPage) {
	fmt.Printf("fetched  %s\n", page.URL())
}

func (o *consoleObserver) OnPageSkipped(url, reason string) {
	fmt.Printf("skipped  %s (%s)\n", url, reason)
}

func (o *consoleObserver) OnError(url string, err error) {
	fmt.Fprintf(os.Stderr, "error    %s: %v\n", url, err)
}
