package crawler

import (
	"context"
	"os"
	"time"

	"github.com/ronpik/website-fetch/internal/assets"
	"github.com/ronpik/website-fetch/internal/config"
	"github.com/ronpik/website-fetch/internal/convert"
	"github.com/ronpik/website-fetch/internal/cookiejar"
	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/internal/fetchqueue"
	"github.com/ronpik/website-fetch/internal/httpfetch"
	"github.com/ronpik/website-fetch/internal/linkextract"
	"github.com/ronpik/website-fetch/internal/metadata"
	"github.com/ronpik/website-fetch/internal/output"
	"github.com/ronpik/website-fetch/internal/ratelimit"
	"github.com/ronpik/website-fetch/internal/robots"
	"github.com/ronpik/website-fetch/pkg/retry"
	"github.com/ronpik/website-fetch/pkg/timeutil"
)

// Engine owns every shared dependency a crawl needs and dispatches to
// the mode-specific run function.
type Engine struct {
	cfg       config.Config
	fetcher   *httpfetch.Fetcher
	converter *convert.Converter
	extractor *linkextract.Extractor
	writer    *output.Writer
	// queue bounds in-flight fetches across a crawl to cfg.Concurrency()
	// (§5). Simple and smart mode submit one BFS round's worth of
	// fetches to it per round; agent mode is a single-threaded tool-call
	// dialogue and never touches it.
	queue    *fetchqueue.Queue
	assets   *assets.Resolver
	sink     metadata.Sink
	observer Observer
}

func New(cfg config.Config, observer Observer, sink metadata.Sink) *Engine {
	if observer == nil {
		observer = NopObserver{}
	}
	if sink == nil {
		sink = metadata.NopSink{}
	}

	robotsCache := robots.New(defaultUserAgent(cfg))
	limiter := ratelimit.New(cfg.Delay(), cfg.MaxRetries(), cfg.AdaptiveRateLimit(), cfg.RandomSeed())
	jar := loadCookieJar(cfg.CookieFile())
	fetcher := httpfetch.New(robotsCache, limiter, jar, cfg.Headers(), cfg.RespectRobots())

	var assetResolver *assets.Resolver
	if cfg.DownloadAssets() {
		retryParam := retry.NewParam(100*time.Millisecond, cfg.RandomSeed(), cfg.MaxRetries(), timeutil.NewBackoffParam(200*time.Millisecond, 2, 5*time.Second))
		assetResolver = assets.New(defaultUserAgent(cfg), cfg.MaxAssetSize(), retryParam, sink)
	}

	return &Engine{
		cfg:       cfg,
		fetcher:   fetcher,
		converter: convert.New(cfg),
		extractor: linkextract.New(),
		writer:    output.New(cfg.OutputDir(), cfg.OutputStructure()),
		queue:     fetchqueue.New(cfg.Concurrency()),
		assets:    assetResolver,
		sink:      sink,
		observer:  observer,
	}
}

func defaultUserAgent(cfg config.Config) string {
	if ua, ok := cfg.Headers()["User-Agent"]; ok {
		return ua
	}
	return httpfetch.DefaultUserAgent
}

func loadCookieJar(path string) cookiejar.Jar {
	if path == "" {
		return cookiejar.Jar{}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return cookiejar.Jar{}
	}
	return cookiejar.Parse(string(content))
}

// Run dispatches to the engine matching cfg.Mode().
func (e *Engine) Run(ctx context.Context) (crawlmodel.FetchResult, error) {
	start := time.Now()

	var result crawlmodel.FetchResult
	var err error

	switch e.cfg.Mode() {
	case config.ModeSmart:
		result, err = e.runSmart(ctx)
	case config.ModeAgent:
		result, err = e.runAgent(ctx)
	default:
		result, err = e.runSimple(ctx)
	}
	if err != nil {
		return crawlmodel.FetchResult{}, err
	}

	result = e.finalizeArtifacts(result)

	durationMs := time.Since(start).Milliseconds()
	result = result.WithStats(crawlmodel.Stats{
		TotalPages:   len(result.Pages()),
		TotalSkipped: len(result.Skipped()),
		DurationMs:   durationMs,
	})

	e.sink.RecordStats(metadata.CrawlStats{
		TotalPages:   len(result.Pages()),
		TotalSkipped: len(result.Skipped()),
		DurationMs:   durationMs,
	})

	return result, nil
}

// finalizeArtifacts writes the optional INDEX.md/aggregated.md per
// cfg.GenerateIndex()/cfg.SingleFile() and stamps their paths onto
// result.
func (e *Engine) finalizeArtifacts(result crawlmodel.FetchResult) crawlmodel.FetchResult {
	pages := result.Pages()
	if len(pages) == 0 {
		return result
	}

	if e.cfg.GenerateIndex() {
		relPaths := make(map[string]string, len(pages))
		for _, page := range pages {
			relPaths[page.URL()] = output.RelativePath(page.URL(), e.cfg.OutputStructure())
		}
		if path, werr := e.writer.WriteIndex(pages, relPaths); werr == nil {
			result = result.WithIndexPath(path)
		}
	}

	if e.cfg.SingleFile() {
		if path, werr := e.writer.WriteAggregate(pages); werr == nil {
			result = result.WithSingleFilePath(path)
		}
	}

	return result
}
