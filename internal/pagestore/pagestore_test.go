package pagestore_test

import (
	"testing"
	"time"

	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/internal/pagestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage(rawURL string) crawlmodel.FetchedPage {
	raw := crawlmodel.NewFetchedPageRaw(rawURL, "<p>x</p>", 200, nil, time.Now())
	return crawlmodel.NewFetchedPage(raw, "x", "Title", 0)
}

func TestStore_PutGetRemoveRoundTrip(t *testing.T) {
	s := pagestore.New()
	s.Put(samplePage("https://example.com/a/"))

	entry, ok := s.Get("https://Example.com/a")
	require.True(t, ok)
	assert.Equal(t, "Title", entry.Page.Title())

	s.Remove("https://example.com/a")
	_, ok = s.Get("https://example.com/a/")
	assert.False(t, ok)
}

func TestStore_RemainingListsAllUnresolvedEntries(t *testing.T) {
	s := pagestore.New()
	s.Put(samplePage("https://example.com/a"))
	s.Put(samplePage("https://example.com/b"))

	assert.Len(t, s.Remaining(), 2)
}

func TestStore_SummaryCache(t *testing.T) {
	s := pagestore.New()
	_, ok := s.Summary("https://example.com/a")
	assert.False(t, ok)

	s.SetSummary("https://example.com/a", "a short summary")
	summary, ok := s.Summary("https://example.com/a")
	require.True(t, ok)
	assert.Equal(t, "a short summary", summary)
}
