// Package pagestore holds the fetched-but-not-yet-decided pages agent
// mode keeps between fetchPage and storePage/markIrrelevant, plus the
// per-URL summary cache the agent consults to avoid re-summarizing a
// page it has already seen. Grounded on the teacher's in-memory
// storage map shape, keyed here by normalized URL instead of content
// hash.
package pagestore

import (
	"sync"

	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/pkg/urlnorm"
)

// Store is the agent loop's shared mutable temp-storage area. Safe for
// concurrent use since getLinks/fetchPage tool calls may run
// alongside other bookkeeping.
type Store struct {
	mu        sync.Mutex
	entries   map[string]crawlmodel.TempStorageEntry
	summaries map[string]string
}

func New() *Store {
	return &Store{
		entries:   make(map[string]crawlmodel.TempStorageEntry),
		summaries: make(map[string]string),
	}
}

// Put stores page under its normalized URL.
func (s *Store) Put(page crawlmodel.FetchedPage) {
	key := urlnorm.Normalize(page.URL())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = crawlmodel.TempStorageEntry{Page: page}
}

// Get returns the stored entry for rawURL, if any.
func (s *Store) Get(rawURL string) (crawlmodel.TempStorageEntry, bool) {
	key := urlnorm.Normalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// Remove deletes rawURL's entry, used once it has been stored or
// marked irrelevant.
func (s *Store) Remove(rawURL string) {
	key := urlnorm.Normalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Remaining returns every URL still held in temp storage, for the
// loop-termination sweep that marks leftovers skipped.
func (s *Store) Remaining() []crawlmodel.FetchedPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages := make([]crawlmodel.FetchedPage, 0, len(s.entries))
	for _, entry := range s.entries {
		pages = append(pages, entry.Page)
	}
	return pages
}

// Summary returns a cached summary for rawURL, if one was already
// computed.
func (s *Store) Summary(rawURL string) (string, bool) {
	key := urlnorm.Normalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.summaries[key]
	return summary, ok
}

// SetSummary caches summary for rawURL.
func (s *Store) SetSummary(rawURL, summary string) {
	key := urlnorm.Normalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[key] = summary
}
