package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ronpik/website-fetch/internal/config"
	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUrlToFilePath_MirrorMode(t *testing.T) {
	assert.Equal(t, "a/b.md", urlToFilePath("https://example.com/a/b", config.OutputMirror))
	assert.Equal(t, "index.md", urlToFilePath("https://example.com/", config.OutputMirror))
	assert.Equal(t, "index.md", urlToFilePath("https://example.com", config.OutputMirror))
	assert.Equal(t, "a/index.md", urlToFilePath("https://example.com/a/", config.OutputMirror))
}

func TestUrlToFilePath_FlatMode(t *testing.T) {
	assert.Equal(t, "a_b.md", urlToFilePath("https://example.com/a/b", config.OutputFlat))
	assert.Equal(t, "index.md", urlToFilePath("https://example.com/", config.OutputFlat))
}

func samplePage(t *testing.T, rawURL, markdown, title string) crawlmodel.FetchedPage {
	t.Helper()
	raw := crawlmodel.NewFetchedPageRaw(rawURL, "<p>x</p>", 200, nil, time.Now())
	return crawlmodel.NewFetchedPage(raw, markdown, title, 0)
}

func TestWriter_WritePageMirrorsURLPath(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, config.OutputMirror)

	page := samplePage(t, "https://example.com/docs/guide", "# Guide", "Guide")
	relPath, err := w.WritePage(page)
	require.Nil(t, err)
	assert.Equal(t, "docs/guide.md", relPath)

	content, readErr := os.ReadFile(filepath.Join(dir, "docs", "guide.md"))
	require.NoError(t, readErr)
	assert.Equal(t, "# Guide", string(content))
}

func TestWriter_WriteIndexListsEveryPage(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, config.OutputMirror)

	pages := []crawlmodel.FetchedPage{
		samplePage(t, "https://example.com/a", "A", "A Title"),
		samplePage(t, "https://example.com/b", "B", "B Title"),
	}
	relPaths := map[string]string{
		"https://example.com/a": "a.md",
		"https://example.com/b": "b.md",
	}

	path, err := w.WriteIndex(pages, relPaths)
	require.Nil(t, err)

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(content), "A Title")
	assert.Contains(t, string(content), "b.md")
}
