// Package crawlmodel holds the data shared by every crawler mode: the
// page and link shapes the fetch/convert/write pipeline passes around,
// the cookie and robots cache entries the fetch pipeline consults, and
// the temp-storage bookkeeping the crawl engines own (the visited set
// lives in internal/frontier).
package crawlmodel

import "time"

// FetchedPageRaw is the immutable result of a single successful HTTP
// fetch, before conversion. url is the final URL after following
// redirects, which may differ from the URL that was requested.
type FetchedPageRaw struct {
	url         string
	body        string
	statusCode  int
	headers     map[string]string
	fetchedAt   time.Time
}

func NewFetchedPageRaw(url, body string, statusCode int, headers map[string]string, fetchedAt time.Time) FetchedPageRaw {
	lowered := make(map[string]string, len(headers))
	for k, v := range headers {
		lowered[lowerHeader(k)] = v
	}
	return FetchedPageRaw{
		url:        url,
		body:       body,
		statusCode: statusCode,
		headers:    lowered,
		fetchedAt:  fetchedAt,
	}
}

func (p FetchedPageRaw) URL() string                  { return p.url }
func (p FetchedPageRaw) Body() string                 { return p.body }
func (p FetchedPageRaw) StatusCode() int              { return p.statusCode }
func (p FetchedPageRaw) Headers() map[string]string   { return p.headers }
func (p FetchedPageRaw) FetchedAt() time.Time         { return p.fetchedAt }
func (p FetchedPageRaw) Header(name string) (string, bool) {
	v, ok := p.headers[lowerHeader(name)]
	return v, ok
}

func lowerHeader(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// FetchedPage extends FetchedPageRaw with the converted Markdown, an
// optional title, and the BFS depth at which the page was reached.
// Agent mode sets depth uniformly to 0.
type FetchedPage struct {
	raw      FetchedPageRaw
	markdown string
	title    string
	depth    int
}

func NewFetchedPage(raw FetchedPageRaw, markdown, title string, depth int) FetchedPage {
	return FetchedPage{raw: raw, markdown: markdown, title: title, depth: depth}
}

func (p FetchedPage) Raw() FetchedPageRaw { return p.raw }
func (p FetchedPage) URL() string         { return p.raw.URL() }
func (p FetchedPage) Markdown() string    { return p.markdown }
func (p FetchedPage) Title() string       { return p.title }
func (p FetchedPage) Depth() int          { return p.depth }

// SkippedPage records a URL the crawler declined to process along with
// a human-readable reason.
type SkippedPage struct {
	url    string
	reason string
}

func NewSkippedPage(url, reason string) SkippedPage {
	return SkippedPage{url: url, reason: reason}
}

func (s SkippedPage) URL() string    { return s.url }
func (s SkippedPage) Reason() string { return s.reason }

// Stats carries the summary counters attached to a FetchResult.
type Stats struct {
	TotalPages   int
	TotalSkipped int
	DurationMs   int64
}

// FetchResult is the top-level outcome of a crawl: accumulated pages,
// accumulated skips, where they were written, and run statistics.
// IndexPath and SingleFilePath are populated after the crawl ends, when
// those artifacts were requested.
type FetchResult struct {
	pages          []FetchedPage
	skipped        []SkippedPage
	outputDir      string
	stats          Stats
	indexPath      string
	singleFilePath string
}

func NewFetchResult(pages []FetchedPage, skipped []SkippedPage, outputDir string, stats Stats) FetchResult {
	return FetchResult{pages: pages, skipped: skipped, outputDir: outputDir, stats: stats}
}

func (r FetchResult) Pages() []FetchedPage     { return r.pages }
func (r FetchResult) Skipped() []SkippedPage   { return r.skipped }
func (r FetchResult) OutputDir() string        { return r.outputDir }
func (r FetchResult) Stats() Stats             { return r.stats }
func (r FetchResult) IndexPath() string        { return r.indexPath }
func (r FetchResult) SingleFilePath() string   { return r.singleFilePath }

func (r FetchResult) WithIndexPath(path string) FetchResult {
	r.indexPath = path
	return r
}

func (r FetchResult) WithSingleFilePath(path string) FetchResult {
	r.singleFilePath = path
	return r
}

func (r FetchResult) WithStats(stats Stats) FetchResult {
	r.stats = stats
	return r
}

// ExtractedLink is a single absolute link discovered on a fetched page,
// already stripped of fragment and query, with surrounding context.
type ExtractedLink struct {
	url     string
	text    string
	context string
}

func NewExtractedLink(url, text, context string) ExtractedLink {
	return ExtractedLink{url: url, text: text, context: context}
}

func (l ExtractedLink) URL() string     { return l.url }
func (l ExtractedLink) Text() string    { return l.text }
func (l ExtractedLink) Context() string { return l.context }

// Cookie is a single Netscape-format cookie-jar entry.
type Cookie struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	Expiry            int64 // seconds since epoch; 0 = session cookie
	Name              string
	Value             string
}

// RobotsCacheEntry is the parsed robots.txt result cached per origin.
type RobotsCacheEntry struct {
	AllowAll   bool
	CrawlDelay *time.Duration
}

// TempStorageEntry is agent mode's holding area for a page between
// fetchPage and storePage/markIrrelevant.
type TempStorageEntry struct {
	Page FetchedPage
}
