// Package httpfetch performs the redirect-limited, timeout-bounded GET
// that turns a URL into a raw fetched page. Grounded on the teacher's
// internal/fetcher.HtmlFetcher (browser-like header set, HTML
// content-type gate, FetchError taxonomy) but restructured around a
// manual redirect loop and the ratelimit package's Execute-style
// wrapper instead of the teacher's retry.Retry + stdlib-followed
// redirects, per §4.5's explicit redirect and timeout contract.
package httpfetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ronpik/website-fetch/internal/cookiejar"
	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/internal/ratelimit"
	"github.com/ronpik/website-fetch/internal/robots"
)

const (
	DefaultUserAgent = "website-fetch/1.0"
	requestTimeout   = 30 * time.Second
	maxRedirects     = 5
)

// Fetcher performs GET requests under robots enforcement, cookie
// injection, and per-host rate limiting.
type Fetcher struct {
	client        *http.Client
	robotsCache   *robots.Cache
	cookies       cookiejar.Jar
	headers       map[string]string
	userAgent     string
	limiter       *ratelimit.Limiter
	respectRobots bool
}

func New(robotsCache *robots.Cache, limiter *ratelimit.Limiter, cookies cookiejar.Jar, headers map[string]string, respectRobots bool) *Fetcher {
	userAgent := DefaultUserAgent
	for k, v := range headers {
		if strings.EqualFold(k, "User-Agent") {
			userAgent = v
		}
	}

	return &Fetcher{
		client:        &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }},
		robotsCache:   robotsCache,
		cookies:       cookies,
		headers:       headers,
		userAgent:     userAgent,
		limiter:       limiter,
		respectRobots: respectRobots,
	}
}

type attemptOutcome struct {
	body       []byte
	headers    map[string]string
	statusCode int
	location   string
}

// Fetch runs the full workflow described in §4.5: robots check, header
// construction, a manual bounded redirect loop, a per-attempt timeout,
// and content-type gating. The returned page's URL is the final
// post-redirect URL.
func (f *Fetcher) Fetch(ctx context.Context, requestedURL string) (crawlmodel.FetchedPageRaw, *Error) {
	if f.respectRobots {
		if !f.robotsCache.IsAllowed(ctx, requestedURL, f.userAgent) {
			return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseRobotsDisallowed}
		}
		f.applyCrawlDelay(ctx, requestedURL)
	}

	current := requestedURL

	for hop := 0; hop <= maxRedirects; hop++ {
		parsed, parseErr := url.Parse(current)
		if parseErr != nil {
			return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseNetwork, Underlying: parseErr}
		}

		var outcome attemptOutcome
		_, submitErr := f.limiter.Submit(ctx, parsed.Host, func(attemptCtx context.Context) (ratelimit.Attempt, error) {
			return f.attempt(attemptCtx, current, parsed, &outcome)
		})

		if submitErr != nil {
			if errors.Is(submitErr, context.DeadlineExceeded) {
				return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseTimeout, Underlying: submitErr}
			}
			return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseNetwork, Underlying: submitErr}
		}

		switch {
		case outcome.statusCode >= 300 && outcome.statusCode < 400:
			if outcome.location == "" {
				return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseRedirectMissingLocation, StatusCode: outcome.statusCode}
			}
			resolved, err := parsed.Parse(outcome.location)
			if err != nil {
				return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseRedirectMissingLocation, StatusCode: outcome.statusCode, Underlying: err}
			}
			current = resolved.String()
			if hop == maxRedirects {
				return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseTooManyRedirects}
			}
			continue

		case outcome.statusCode < 200 || outcome.statusCode >= 300:
			return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseHTTPError, StatusCode: outcome.statusCode}

		default:
			if !isHTMLContentType(outcome.headers["content-type"]) {
				return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseNonHTMLContent, StatusCode: outcome.statusCode}
			}
			return crawlmodel.NewFetchedPageRaw(current, string(outcome.body), outcome.statusCode, outcome.headers, time.Now()), nil
		}
	}

	return crawlmodel.FetchedPageRaw{}, &Error{URL: requestedURL, Cause: ErrCauseTooManyRedirects}
}

// applyCrawlDelay raises the limiter's floor for requestedURL's host to
// robots.txt's Crawl-delay directive, if the origin's matched group
// declares one, so ratelimit.Limiter never paces faster than the site
// asked for (§4.1/§4.3/§4.5).
func (f *Fetcher) applyCrawlDelay(ctx context.Context, requestedURL string) {
	delay := f.robotsCache.CrawlDelay(ctx, requestedURL)
	if delay == nil {
		return
	}
	parsed, err := url.Parse(requestedURL)
	if err != nil {
		return
	}
	f.limiter.SetCrawlDelayFloor(parsed.Host, *delay)
}

func (f *Fetcher) attempt(ctx context.Context, current string, parsed *url.URL, outcome *attemptOutcome) (ratelimit.Attempt, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, current, nil)
	if err != nil {
		return ratelimit.Attempt{}, err
	}
	f.applyHeaders(req, parsed)

	resp, err := f.client.Do(req)
	if err != nil {
		return ratelimit.Attempt{}, err
	}
	defer resp.Body.Close()

	outcome.statusCode = resp.StatusCode
	outcome.location = resp.Header.Get("Location")
	outcome.headers = flattenHeaders(resp.Header)

	attempt := ratelimit.Attempt{StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusTooManyRequests {
		attempt.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return ratelimit.Attempt{}, readErr
		}
		outcome.body = body
	}

	return attempt, nil
}

func (f *Fetcher) applyHeaders(req *http.Request, pageURL *url.URL) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	for key, value := range f.headers {
		if strings.EqualFold(key, "User-Agent") {
			continue
		}
		req.Header.Set(key, value)
	}

	if cookieHeader := f.cookies.Header(pageURL.Hostname(), pageURL.Path, pageURL.Scheme == "https"); cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}
}

func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for key, values := range header {
		if len(values) > 0 {
			flat[strings.ToLower(key)] = values[0]
		}
	}
	return flat
}

func isHTMLContentType(contentType string) bool {
	lowered := strings.ToLower(contentType)
	return strings.Contains(lowered, "text/html") || strings.Contains(lowered, "application/xhtml+xml")
}

// parseRetryAfter parses a Retry-After header value, either a number of
// seconds or an HTTP-date. A past date collapses to zero delay.
func parseRetryAfter(value string) *time.Duration {
	if value == "" {
		return nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		d := time.Duration(seconds) * time.Second
		return &d
	}
	if when, err := http.ParseTime(value); err == nil {
		d := time.Until(when)
		if d < 0 {
			d = 0
		}
		return &d
	}
	return nil
}
