package crawler

import (
	"context"
	"sync"

	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/internal/frontier"
)

// runSimple implements §4.11: plain BFS, no LLM involvement. Path
// prefix is intentionally not applied to simple-mode link extraction
// (see the Open Question recorded in the design ledger); only
// same-domain plus include/exclude patterns gate which links enqueue.
func (e *Engine) runSimple(ctx context.Context) (crawlmodel.FetchResult, error) {
	return e.runBFS(ctx, nil)
}

// classifyFunc, when non-nil, filters a batch of extracted links down
// to the ones that should be enqueued. Smart mode supplies this; plain
// BFS passes nil and keeps every link the extractor's own filters
// allow through.
type classifyFunc func(ctx context.Context, links []crawlmodel.ExtractedLink) []crawlmodel.ExtractedLink

// runBFS processes the frontier one BFS round at a time: each round
// dequeues up to the remaining page budget, fetches that batch through
// the engine's bounded fetchqueue.Queue (so no more than
// cfg.Concurrency() requests are ever in flight at once, per §5), then
// extracts and - for smart mode - classifies the batch's links before
// enqueueing them for the next round. This keeps the fan-out bounded
// and non-recursive: Submit is only ever called from this loop, never
// from inside a submitted job, so it cannot self-deadlock the way a
// per-link recursive Submit could at concurrency=1.
func (e *Engine) runBFS(ctx context.Context, classify classifyFunc) (crawlmodel.FetchResult, error) {
	f := frontier.New()
	f.Enqueue(e.cfg.URL(), 0)

	var mu sync.Mutex
	var pages []crawlmodel.FetchedPage
	var skipped []crawlmodel.SkippedPage

	for {
		mu.Lock()
		budget := e.cfg.MaxPages() - len(pages)
		mu.Unlock()
		if budget <= 0 {
			break
		}

		var round []frontier.Item
		for len(round) < budget {
			item, ok := f.Dequeue()
			if !ok {
				break
			}
			if item.Depth > e.cfg.MaxDepth() {
				skipped = append(skipped, crawlmodel.NewSkippedPage(item.URL, "exceeds max depth"))
				e.observer.OnPageSkipped(item.URL, "exceeds max depth")
				continue
			}
			if f.IsVisited(item.URL) {
				// Enqueue only dedups against the visited set, and a
				// link discovered by two pages in the same round is
				// enqueued twice before either copy is marked visited
				// (that happens below, not until dequeue). Drop the
				// second copy here instead of fetching the same URL
				// twice in one round.
				continue
			}
			f.Visit(item.URL)
			round = append(round, item)
		}
		if len(round) == 0 {
			break
		}

		var wg sync.WaitGroup
		var discovered []crawlmodel.ExtractedLink
		discoveredDepth := make(map[string]int)

		for _, item := range round {
			item := item
			wg.Add(1)
			e.queue.Submit(func() {
				defer wg.Done()

				page, err := e.fetchConvertWrite(ctx, item.URL, item.Depth)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					skipped = append(skipped, crawlmodel.NewSkippedPage(item.URL, err.Error()))
					e.observer.OnPageSkipped(item.URL, err.Error())
					e.observer.OnError(item.URL, err)
					return
				}
				if len(pages) >= e.cfg.MaxPages() {
					return
				}
				pages = append(pages, page)
				e.observer.OnPageFetched(page)

				opts := e.linkOptions()
				if classify != nil {
					// simple mode leaves path-prefix unapplied, per §9.
					opts.PathPrefix = e.cfg.PathPrefix()
				}
				links := e.extractLinks(page.URL(), page.Raw().Body(), opts)
				for _, link := range links {
					discoveredDepth[link.URL()] = item.Depth + 1
				}
				discovered = append(discovered, links...)
			})
		}
		wg.Wait()

		if classify != nil {
			discovered = classify(ctx, discovered)
		}
		for _, link := range discovered {
			f.Enqueue(link.URL(), discoveredDepth[link.URL()])
		}
	}

	stats := crawlmodel.Stats{TotalPages: len(pages), TotalSkipped: len(skipped)}
	return crawlmodel.NewFetchResult(pages, skipped, e.cfg.OutputDir(), stats), nil
}
