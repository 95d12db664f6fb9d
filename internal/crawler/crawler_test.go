package crawler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ronpik/website-fetch/internal/config"
	"github.com/ronpik/website-fetch/internal/crawler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageHTML(links ...string) string {
	html := "<html><body><h1>Page</h1>"
	for _, l := range links {
		html += fmt.Sprintf(`<a href="%s">link</a>`, l)
	}
	html += "</body></html>"
	return html
}

func TestEngine_SimpleBFSRespectsDepthAndPageCaps(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var links []string
		for i := 0; i < 10; i++ {
			links = append(links, fmt.Sprintf("%s/child-%d", server.URL, i))
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(pageHTML(links...)))
	})
	for i := 0; i < 10; i++ {
		i := i
		mux.HandleFunc(fmt.Sprintf("/child-%d", i), func(w http.ResponseWriter, r *http.Request) {
			var grandchildren []string
			for j := 0; j < 10; j++ {
				grandchildren = append(grandchildren, fmt.Sprintf("%s/child-%d/grandchild-%d", server.URL, i, j))
			}
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(pageHTML(grandchildren...)))
		})
	}
	server = httptest.NewServer(mux)
	defer server.Close()

	cfg, err := config.WithDefault(server.URL).
		WithMaxDepth(1).
		WithMaxPages(5).
		WithRespectRobots(false).
		WithDelay(0).
		Build()
	require.NoError(t, err)

	engine := crawler.New(cfg, nil, nil)
	result, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Pages(), 5)
	for _, p := range result.Pages() {
		assert.LessOrEqual(t, p.Depth(), 1)
	}
}
