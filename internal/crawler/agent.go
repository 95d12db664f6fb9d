package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/internal/llm"
	"github.com/ronpik/website-fetch/internal/pagestore"
)

const (
	maxTurns            = 100
	maxToolCallsPerTurn = 10
	summarizerCallSite  = "page-summarizer"
	agentTurnCallSite   = "agent-turn"
	summarizerMaxChars  = 8000
	summaryFallbackLen  = 500
)

// agentAction is the structured decision the agent-turn LLM call
// returns: which of the five tools to invoke next, and on which URL.
// An empty Tool means the model chose to stop without a tool call.
type agentAction struct {
	Tool string `json:"tool"`
	URL  string `json:"url,omitempty"`
}

// runAgent implements §4.13. Our Provider abstraction exposes only
// invoke/invokeStructured (per the design note in §9), so the
// multi-tool-call conversation is modeled as a sequence of structured
// "pick the next tool" decisions instead of native tool-use: each
// decision is one tool call, and up to maxToolCallsPerTurn of them
// make up a turn.
func (e *Engine) runAgent(ctx context.Context) (crawlmodel.FetchResult, error) {
	store := pagestore.New()
	var pages []crawlmodel.FetchedPage
	var skipped []crawlmodel.SkippedPage
	storedCount := 0
	done := false

	var transcript strings.Builder
	transcript.WriteString(fmt.Sprintf(
		"Goal: %s\nRoot URL: %s\nMax pages to store: %d\n\n"+
			"Available tools: fetchPage(url), storePage(url), markIrrelevant(url), getLinks(url), done().\n"+
			"Respond at each step with the single next tool call as structured JSON {tool, url}.\n",
		e.cfg.Description(), e.cfg.URL(), e.cfg.MaxPages(),
	))

turnLoop:
	for turn := 0; turn < maxTurns && !done; turn++ {
		madeToolCall := false

		for call := 0; call < maxToolCallsPerTurn && !done; call++ {
			var action agentAction
			err := e.llmProvider().InvokeStructured(ctx, transcript.String(), llm.SchemaOf(&action), llm.Options{CallSite: agentTurnCallSite, Model: e.cfg.Model()}, &action)
			if err != nil {
				e.observer.OnError(e.cfg.URL(), err)
				break turnLoop
			}

			if action.Tool == "" {
				break
			}
			madeToolCall = true

			result := e.executeAgentTool(ctx, store, &pages, &skipped, &storedCount, action)
			transcript.WriteString(fmt.Sprintf("\n> %s(%s)\n%s\n", action.Tool, action.URL, result))

			if action.Tool == "done" {
				done = true
			}
			if storedCount >= e.cfg.MaxPages() {
				transcript.WriteString("\nmaxPages reached; call done().\n")
			}
		}

		if !madeToolCall {
			break
		}
	}

	for _, leftover := range store.Remaining() {
		skipped = append(skipped, crawlmodel.NewSkippedPage(leftover.URL(), "Fetched but not stored by agent"))
		e.observer.OnPageSkipped(leftover.URL(), "Fetched but not stored by agent")
	}

	stats := crawlmodel.Stats{TotalPages: len(pages), TotalSkipped: len(skipped)}
	return crawlmodel.NewFetchResult(pages, skipped, e.cfg.OutputDir(), stats), nil
}

func (e *Engine) executeAgentTool(
	ctx context.Context,
	store *pagestore.Store,
	pages *[]crawlmodel.FetchedPage,
	skipped *[]crawlmodel.SkippedPage,
	storedCount *int,
	action agentAction,
) string {
	switch action.Tool {
	case "fetchPage":
		return e.toolFetchPage(ctx, store, action.URL)
	case "storePage":
		return e.toolStorePage(store, pages, storedCount, action.URL)
	case "markIrrelevant":
		return e.toolMarkIrrelevant(store, skipped, action.URL)
	case "getLinks":
		return e.toolGetLinks(store, action.URL)
	case "done":
		return "done."
	default:
		return fmt.Sprintf("unknown tool %q", action.Tool)
	}
}

func (e *Engine) toolFetchPage(ctx context.Context, store *pagestore.Store, rawURL string) string {
	if summary, ok := store.Summary(rawURL); ok {
		return summary
	}

	page, err := e.fetchConvertWrite(ctx, rawURL, 0)
	if err != nil {
		return fmt.Sprintf("fetch failed: %v", err)
	}
	store.Put(page)

	summary := e.summarize(ctx, page.Markdown())
	store.SetSummary(rawURL, summary)
	return summary
}

func (e *Engine) summarize(ctx context.Context, markdown string) string {
	excerpt := markdown
	if len(excerpt) > summarizerMaxChars {
		excerpt = excerpt[:summarizerMaxChars]
	}

	prompt := "Summarize the following Markdown page in 200-500 words for a crawl agent deciding whether to keep it.\n\n" + excerpt
	summary, err := e.llmProvider().Invoke(ctx, prompt, llm.Options{CallSite: summarizerCallSite, Model: e.cfg.Model()})
	if err != nil || strings.TrimSpace(summary) == "" {
		if len(markdown) > summaryFallbackLen {
			return markdown[:summaryFallbackLen]
		}
		return markdown
	}
	return summary
}

func (e *Engine) toolStorePage(store *pagestore.Store, pages *[]crawlmodel.FetchedPage, storedCount *int, rawURL string) string {
	entry, ok := store.Get(rawURL)
	if !ok {
		return "error: no fetched page in temp storage for this URL; call fetchPage first"
	}
	if *storedCount >= e.cfg.MaxPages() {
		return "error: maxPages reached; call done()"
	}

	if _, writeErr := e.writer.WritePage(entry.Page); writeErr != nil {
		return fmt.Sprintf("write failed: %v", writeErr)
	}

	*storedCount++
	*pages = append(*pages, entry.Page)
	e.observer.OnPageFetched(entry.Page)

	links := e.extractLinks(entry.Page.URL(), entry.Page.Raw().Body(), e.linkOptionsWithPrefix())
	store.Remove(rawURL)

	return "stored. " + formatLinks(links)
}

func (e *Engine) toolMarkIrrelevant(store *pagestore.Store, skipped *[]crawlmodel.SkippedPage, rawURL string) string {
	entry, ok := store.Get(rawURL)
	if !ok {
		return "error: no fetched page in temp storage for this URL"
	}

	links := e.extractLinks(entry.Page.URL(), entry.Page.Raw().Body(), e.linkOptionsWithPrefix())
	store.Remove(rawURL)

	*skipped = append(*skipped, crawlmodel.NewSkippedPage(rawURL, "Marked irrelevant by agent"))
	e.observer.OnPageSkipped(rawURL, "Marked irrelevant by agent")

	return "marked irrelevant. " + formatLinks(links)
}

func (e *Engine) toolGetLinks(store *pagestore.Store, rawURL string) string {
	entry, ok := store.Get(rawURL)
	if !ok {
		return "error: no fetched page in temp storage for this URL; call fetchPage first"
	}
	links := e.extractLinks(entry.Page.URL(), entry.Page.Raw().Body(), e.linkOptionsWithPrefix())
	return formatLinks(links)
}

func formatLinks(links []crawlmodel.ExtractedLink) string {
	if len(links) == 0 {
		return "no links found."
	}
	var b strings.Builder
	b.WriteString("links:\n")
	for _, link := range links {
		b.WriteString("- " + link.URL() + "\n")
	}
	return b.String()
}
