// Package robots fetches, parses, and caches robots.txt per origin, and
// answers the single question the fetch pipeline needs before every
// request: is this URL allowed for this user-agent. Any failure to
// fetch or parse degrades to an allow-all entry rather than blocking
// the crawl.
package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ronpik/website-fetch/internal/crawlmodel"
)

const fetchTimeout = 10 * time.Second
const maxBodyBytes = 500 * 1024

// Cache fetches robots.txt once per origin and caches the decision
// surface for the life of the crawler. Safe for concurrent use: the
// fetch pipeline may query multiple origins (or pages on the same
// origin from different workers) in parallel.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]ruleSet
	httpClient *http.Client
	userAgent  string
}

func New(userAgent string) *Cache {
	return &Cache{
		entries:    make(map[string]ruleSet),
		httpClient: &http.Client{Timeout: fetchTimeout},
		userAgent:  userAgent,
	}
}

// IsAllowed reports whether rawURL may be fetched by userAgent. It
// fetches and caches the origin's robots.txt on first use.
func (c *Cache) IsAllowed(ctx context.Context, rawURL, userAgent string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return true
	}

	entry := c.ruleSetFor(ctx, origin(parsed))
	if entry.allowAll {
		return true
	}
	return isAllowedByGroup(entry.matched, parsed.Path)
}

// CrawlDelay returns the Crawl-delay directive for rawURL's origin, if
// any was parsed for the resolved user-agent group.
func (c *Cache) CrawlDelay(ctx context.Context, rawURL string) *time.Duration {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	entry := c.ruleSetFor(ctx, origin(parsed))
	return entry.crawlDelay
}

func origin(u *url.URL) string {
	scheme := u.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s", scheme, u.Host)
}

func (c *Cache) ruleSetFor(ctx context.Context, originKey string) ruleSet {
	c.mu.RLock()
	entry, ok := c.entries[originKey]
	c.mu.RUnlock()
	if ok {
		return entry
	}

	entry = c.fetch(ctx, originKey)

	c.mu.Lock()
	c.entries[originKey] = entry
	c.mu.Unlock()
	return entry
}

func (c *Cache) fetch(ctx context.Context, originKey string) ruleSet {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, originKey+"/robots.txt", nil)
	if err != nil {
		return allowAllEntry()
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return allowAllEntry()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return allowAllEntry()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return allowAllEntry()
	}
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
	}

	parsed := parseRobotsTxt(string(body))
	matched := resolveGroup(parsed, c.userAgent)

	var crawlDelay *time.Duration
	if matched != nil {
		crawlDelay = matched.crawlDelay
	}

	return ruleSet{
		allowAll:   false,
		matched:    matched,
		crawlDelay: crawlDelay,
		fetchedAt:  time.Now(),
	}
}

func allowAllEntry() ruleSet {
	return ruleSet{allowAll: true, fetchedAt: time.Now()}
}

// Snapshot exposes a cached origin's decision surface in the shared
// crawlmodel shape, for diagnostics and logging.
func (c *Cache) Snapshot(originKey string) (crawlmodel.RobotsCacheEntry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[originKey]
	c.mu.RUnlock()
	if !ok {
		return crawlmodel.RobotsCacheEntry{}, false
	}
	return crawlmodel.RobotsCacheEntry{AllowAll: entry.allowAll, CrawlDelay: entry.crawlDelay}, true
}
