package robots_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ronpik/website-fetch/internal/robots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAllowed_DisallowedPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /private"))
	}))
	defer server.Close()

	cache := robots.New("website-fetch/1.0")

	assert.False(t, cache.IsAllowed(context.Background(), server.URL+"/private/x", "website-fetch/1.0"))
	assert.True(t, cache.IsAllowed(context.Background(), server.URL+"/public/y", "website-fetch/1.0"))
}

func TestIsAllowed_UnreachableOriginAllowsAll(t *testing.T) {
	cache := robots.New("website-fetch/1.0")

	allowed := cache.IsAllowed(context.Background(), "http://127.0.0.1:1/anything", "website-fetch/1.0")
	assert.True(t, allowed, "unreachable robots.txt origin must allow all")
}

func TestIsAllowed_NonSuccessStatusAllowsAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cache := robots.New("website-fetch/1.0")

	allowed := cache.IsAllowed(context.Background(), server.URL+"/x", "website-fetch/1.0")
	assert.True(t, allowed)
}

func TestCrawlDelay_Parsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nCrawl-delay: 2\nDisallow: /private"))
	}))
	defer server.Close()

	cache := robots.New("website-fetch/1.0")

	delay := cache.CrawlDelay(context.Background(), server.URL+"/x")
	require.NotNil(t, delay)
	assert.Equal(t, 2e9, float64(*delay))
}
