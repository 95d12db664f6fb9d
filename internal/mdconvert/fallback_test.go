package mdconvert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackExtract_PrefersMainTag(t *testing.T) {
	html := `<html><body><nav>home about</nav><main><h1>Guide</h1><p>` +
		strings.Repeat("word ", 20) + `</p></main></body></html>`

	out, ok := fallbackExtract(html)
	assert.True(t, ok)
	assert.Contains(t, out, "Guide")
	assert.NotContains(t, out, "home about")
}

func TestFallbackExtract_FallsThroughToScoredDiv(t *testing.T) {
	html := `<html><body>` +
		`<div class="sidebar"><a href="/1">one</a><a href="/2">two</a><a href="/3">three</a></div>` +
		`<div class="article"><h2>Title</h2><p>` + strings.Repeat("content ", 30) + `</p><pre><code>x := 1</code></pre></div>` +
		`</body></html>`

	out, ok := fallbackExtract(html)
	assert.True(t, ok)
	assert.Contains(t, out, "Title")
}

func TestFallbackExtract_NoMeaningfulContentReturnsFalse(t *testing.T) {
	html := `<html><body><nav>one two three</nav></body></html>`

	_, ok := fallbackExtract(html)
	assert.False(t, ok)
}
