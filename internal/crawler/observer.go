// Package crawler implements the three crawl engines — simple, smart,
// agent — that turn a root URL plus Config into a FetchResult. Grounded
// on the teacher's internal/scheduler.Scheduler for the overall
// fetch-convert-write pipeline shape, generalized from the teacher's
// single crawl strategy into the spec's three selectable modes and its
// config-mutation-based callbacks replaced with an explicit Observer
// interface passed into the engine constructor.
package crawler

import "github.com/ronpik/website-fetch/internal/crawlmodel"

// Observer receives the three callbacks fired during a crawl.
// OnPageFetched fires after a successful write, OnPageSkipped on every
// visible skip, OnError on fetch/convert failures and fatal
// agent-loop LLM errors.
type Observer interface {
	OnPageFetched(page crawlmodel.FetchedPage)
	OnPageSkipped(url, reason string)
	OnError(url string, err error)
}

// NopObserver discards every callback.
type NopObserver struct{}

func (NopObserver) OnPageFetched(crawlmodel.FetchedPage) {}
func (NopObserver) OnPageSkipped(string, string)          {}
func (NopObserver) OnError(string, error)                 {}
