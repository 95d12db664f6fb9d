package httpfetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ronpik/website-fetch/internal/cookiejar"
	"github.com/ronpik/website-fetch/internal/httpfetch"
	"github.com/ronpik/website-fetch/internal/ratelimit"
	"github.com/ronpik/website-fetch/internal/robots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(respectRobots bool) *httpfetch.Fetcher {
	return httpfetch.New(
		robots.New(httpfetch.DefaultUserAgent),
		ratelimit.New(time.Millisecond, 1, false, 1),
		cookiejar.Jar{},
		nil,
		respectRobots,
	)
}

func TestFetch_RedirectChainReturnsFinalURL(t *testing.T) {
	var finalServer *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, finalServer.URL+"/b", http.StatusFound)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, finalServer.URL+"/c", http.StatusFound)
	})
	mux.HandleFunc("/c", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<h1>C</h1>"))
	})
	finalServer = httptest.NewServer(mux)
	defer finalServer.Close()

	fetcher := newFetcher(false)
	page, err := fetcher.Fetch(context.Background(), finalServer.URL+"/a")
	require.Nil(t, err)
	assert.Equal(t, finalServer.URL+"/c", page.URL())
}

func TestFetch_NonHTMLContentRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	fetcher := newFetcher(false)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NotNil(t, err)
	assert.Equal(t, httpfetch.ErrCauseNonHTMLContent, err.Cause)
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /private"))
	})
	mux.HandleFunc("/private/x", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>secret</p>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := newFetcher(true)
	_, err := fetcher.Fetch(context.Background(), server.URL+"/private/x")
	require.NotNil(t, err)
	assert.Equal(t, httpfetch.ErrCauseRobotsDisallowed, err.Cause)
}

func TestFetch_RobotsCrawlDelayRaisesLimiterFloor(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nCrawl-delay: 1"))
	})
	var hits int
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<p>hi</p>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	limiter := ratelimit.New(time.Millisecond, 1, false, 1)
	fetcher := httpfetch.New(robots.New(httpfetch.DefaultUserAgent), limiter, cookiejar.Jar{}, nil, true)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/page")
	require.Nil(t, err)
	assert.Equal(t, 1, hits)

	start := time.Now()
	_, err = fetcher.Fetch(context.Background(), server.URL+"/page")
	require.Nil(t, err)
	assert.GreaterOrEqual(t, time.Since(start), time.Second, "second fetch must wait out the Crawl-delay floor")
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := newFetcher(false)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NotNil(t, err)
	assert.Equal(t, httpfetch.ErrCauseHTTPError, err.Cause)
	assert.Equal(t, 404, err.StatusCode)
}
