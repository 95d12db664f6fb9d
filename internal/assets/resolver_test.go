package assets_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ronpik/website-fetch/internal/assets"
	"github.com/ronpik/website-fetch/internal/metadata"
	"github.com/ronpik/website-fetch/pkg/retry"
	"github.com/ronpik/website-fetch/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetryParam() retry.Param {
	return retry.NewParam(0, 1, 2, timeutil.NewBackoffParam(time.Millisecond, 2, 10*time.Millisecond))
}

func TestResolver_DownloadsAndRewritesImageReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-png-bytes"))
	}))
	defer server.Close()

	outputDir := t.TempDir()
	resolver := assets.New("test-agent", 1<<20, testRetryParam(), metadata.NopSink{})

	markdown := "# Page\n\n![logo](" + server.URL + "/logo.png)\n"
	rewritten := resolver.Resolve(context.Background(), server.URL+"/page.html", markdown, outputDir)

	assert.NotContains(t, rewritten, server.URL)
	assert.Contains(t, rewritten, "assets/logo-")

	entries, err := os.ReadDir(filepath.Join(outputDir, "assets"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResolver_DedupesIdenticalContentAcrossURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("same-bytes"))
	}))
	defer server.Close()

	outputDir := t.TempDir()
	resolver := assets.New("test-agent", 1<<20, testRetryParam(), metadata.NopSink{})

	md1 := "![a](" + server.URL + "/a.png)"
	md2 := "![b](" + server.URL + "/b.png)"
	out1 := resolver.Resolve(context.Background(), server.URL+"/p1.html", md1, outputDir)
	out2 := resolver.Resolve(context.Background(), server.URL+"/p2.html", md2, outputDir)

	entries, err := os.ReadDir(filepath.Join(outputDir, "assets"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "identical content from two URLs should write once")
	assert.NotEqual(t, out1, md1)
	assert.NotEqual(t, out2, md2)
}

func TestResolver_LeavesReferenceUntouchedOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	outputDir := t.TempDir()
	resolver := assets.New("test-agent", 1<<20, testRetryParam(), metadata.NopSink{})

	markdown := "![missing](" + server.URL + "/missing.png)"
	rewritten := resolver.Resolve(context.Background(), server.URL+"/page.html", markdown, outputDir)

	assert.Equal(t, markdown, rewritten)
}
