// Package frontier owns BFS ordering, depth tracking, and the visited
// set a crawl consults before each fetch. It knows nothing about
// fetching, extraction, or conversion — those are the crawler's job.
package frontier

import "github.com/ronpik/website-fetch/pkg/urlnorm"

// Item is a single frontier entry: a URL paired with the depth at
// which it was discovered (0 for the root).
type Item struct {
	URL   string
	Depth int
}

// Frontier is a FIFO queue over Item plus the VisitedSet that dedups
// across the lifetime of one crawl. It is not safe for concurrent use;
// every mutation is expected to happen on the crawler's own control
// flow, per the single-owner discipline crawlers are built around.
type Frontier struct {
	queue   *FIFOQueue[Item]
	visited Set[string]
}

// New returns an empty Frontier.
func New() *Frontier {
	return &Frontier{
		queue:   NewFIFOQueue[Item](),
		visited: NewSet[string](),
	}
}

// Enqueue adds url at depth unless its normalized form is already
// visited. It returns false when the URL was dropped as a dup, true
// when it was queued.
func (f *Frontier) Enqueue(url string, depth int) bool {
	normalized := urlnorm.Normalize(url)
	if f.visited.Contains(normalized) {
		return false
	}
	f.queue.Enqueue(Item{URL: url, Depth: depth})
	return true
}

// Dequeue pops the next item in FIFO order.
func (f *Frontier) Dequeue() (Item, bool) {
	return f.queue.Dequeue()
}

// Len reports the number of items still queued.
func (f *Frontier) Len() int {
	return f.queue.Size()
}

// IsVisited reports whether url's normalized form has already been
// marked visited.
func (f *Frontier) IsVisited(url string) bool {
	return f.visited.Contains(urlnorm.Normalize(url))
}

// Visit marks url's normalized form as visited. Crawlers call this
// immediately after dequeuing and before fetching, so a link
// discovered on another page in the same pass cannot cause a duplicate
// fetch of a URL already in flight.
func (f *Frontier) Visit(url string) {
	f.visited.Add(urlnorm.Normalize(url))
}

// VisitedCount reports the number of distinct normalized URLs visited
// so far in this crawl.
func (f *Frontier) VisitedCount() int {
	return f.visited.Size()
}
