package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ronpik/website-fetch/internal/config"
	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/internal/llm"
)

const (
	batchClassifierCallSite  = "link-classifier-batch"
	perLinkClassifierCallSite = "link-classifier-per-link"
	batchChunkSize            = 50
)

// runSmart implements §4.12: identical BFS to simple mode, plus an LLM
// relevance filter applied to every extracted batch of links before
// enqueueing, with path-prefix now also in effect.
func (e *Engine) runSmart(ctx context.Context) (crawlmodel.FetchResult, error) {
	return e.runBFS(ctx, e.classifyLinks)
}

func (e *Engine) classifyLinks(ctx context.Context, links []crawlmodel.ExtractedLink) []crawlmodel.ExtractedLink {
	if len(links) == 0 {
		return links
	}
	if e.cfg.LinkClassification() == config.ClassificationPerLink {
		return e.classifyPerLink(ctx, links)
	}
	return e.classifyBatch(ctx, links)
}

type batchRelevance struct {
	Relevant []int `json:"relevant"`
}

func (e *Engine) classifyBatch(ctx context.Context, links []crawlmodel.ExtractedLink) []crawlmodel.ExtractedLink {
	var kept []crawlmodel.ExtractedLink

	for start := 0; start < len(links); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(links) {
			end = len(links)
		}
		chunk := links[start:end]

		var prompt strings.Builder
		prompt.WriteString("Crawl goal: " + e.cfg.Description() + "\n\n")
		prompt.WriteString("Which of the following links are relevant to the crawl goal? Reply with the 1-indexed numbers.\n\n")
		for i, link := range chunk {
			prompt.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, link.URL(), link.Context()))
		}

		var result batchRelevance
		err := e.llmProvider().InvokeStructured(ctx, prompt.String(), llm.SchemaOf(&result), llm.Options{CallSite: batchClassifierCallSite, Model: e.cfg.Model()}, &result)
		if err != nil {
			kept = append(kept, chunk...)
			continue
		}

		relevant := make(map[int]bool, len(result.Relevant))
		for _, idx := range result.Relevant {
			relevant[idx] = true
		}
		for i, link := range chunk {
			if relevant[i+1] {
				kept = append(kept, link)
			}
		}
	}

	return kept
}

type linkRelevance struct {
	Relevant bool `json:"relevant"`
}

func (e *Engine) classifyPerLink(ctx context.Context, links []crawlmodel.ExtractedLink) []crawlmodel.ExtractedLink {
	kept := make([]crawlmodel.ExtractedLink, len(links))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, link := range links {
		wg.Add(1)
		go func(i int, link crawlmodel.ExtractedLink) {
			defer wg.Done()

			prompt := fmt.Sprintf(
				"Crawl goal: %s\n\nIs this link relevant to the crawl goal?\nURL: %s\nContext: %s",
				e.cfg.Description(), link.URL(), link.Context(),
			)

			var result linkRelevance
			err := e.llmProvider().InvokeStructured(ctx, prompt, llm.SchemaOf(&result), llm.Options{CallSite: perLinkClassifierCallSite, Model: e.cfg.Model()}, &result)
			relevant := err != nil || result.Relevant

			mu.Lock()
			if relevant {
				kept[i] = link
			}
			mu.Unlock()
		}(i, link)
	}
	wg.Wait()

	out := make([]crawlmodel.ExtractedLink, 0, len(links))
	for _, link := range kept {
		if link.URL() != "" {
			out = append(out, link)
		}
	}
	return out
}

func (e *Engine) llmProvider() llm.Provider {
	return e.cfg.LLMProvider()
}
