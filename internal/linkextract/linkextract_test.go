package linkextract_test

import (
	"testing"

	"github.com/ronpik/website-fetch/internal/linkextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureHTML = `
<html><body>
<article>
  <p>See our <a href="/docs/guide">guide</a> for details.</p>
  <p>Duplicate link <a href="/docs/guide">again</a> here.</p>
</article>
<nav>
  <a href="https://other.example.com/x">external</a>
  <a href="#section-2">jump</a>
  <a href="mailto:hi@example.com">email us</a>
  <a href="javascript:void(0)">no-op</a>
  <a href="/docs/advanced?x=1#frag">advanced</a>
</nav>
</body></html>
`

func TestExtract_FiltersAndDeduplicates(t *testing.T) {
	e := linkextract.New()
	links, err := e.Extract("https://example.com/docs/index", fixtureHTML, linkextract.Options{SameDomainOnly: true})
	require.NoError(t, err)

	var urls []string
	for _, l := range links {
		urls = append(urls, l.URL())
	}

	assert.Equal(t, []string{
		"https://example.com/docs/guide",
		"https://example.com/docs/advanced",
	}, urls)
}

func TestExtract_PathPrefixBoundary(t *testing.T) {
	html := `<a href="/docs/guide">a</a><a href="/docsister/x">b</a>`
	e := linkextract.New()
	links, err := e.Extract("https://example.com/", html, linkextract.Options{PathPrefix: "/docs"})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/docs/guide", links[0].URL())
}

func TestExtract_IncludeExcludeGlobs(t *testing.T) {
	html := `<a href="/blog/post-1">p1</a><a href="/blog/draft/post-2">p2</a><a href="/about">about</a>`
	e := linkextract.New()
	links, err := e.Extract("https://example.com/", html, linkextract.Options{
		IncludePatterns: []string{"/blog/**"},
		ExcludePatterns: []string{"/blog/draft/**"},
	})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/blog/post-1", links[0].URL())
}

func TestExtract_ContextWalksToBlockAncestor(t *testing.T) {
	html := `<div><p>Read more about <a href="/x">this topic</a> in our archive.</p></div>`
	e := linkextract.New()
	links, err := e.Extract("https://example.com/", html, linkextract.Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Contains(t, links[0].Context(), "Read more about this topic in our archive.")
}
