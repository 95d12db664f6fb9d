// Package linkextract parses a fetched page's HTML and returns the
// absolute, filtered, deduplicated links a crawler should consider
// following next, each carrying a snippet of surrounding context.
// Grounded on the teacher's internal/extractor (goquery over
// golang.org/x/net/html, DOM-walk conventions) but built around link
// discovery instead of content-container extraction.
package linkextract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ronpik/website-fetch/internal/crawlmodel"
)

const maxContextChars = 200

var skippedSchemes = []string{"mailto:", "javascript:", "tel:", "data:"}

var blockLevelTags = map[string]bool{
	"p": true, "li": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "dd": true, "dt": true, "figcaption": true, "caption": true,
	"article": true, "section": true, "div": true, "header": true, "footer": true,
	"nav": true, "aside": true, "main": true,
}

// Options controls which links Extract keeps.
type Options struct {
	SameDomainOnly  bool
	PathPrefix      string
	IncludePatterns []string
	ExcludePatterns []string
}

// Extractor holds the compiled-glob cache shared across every page in a
// crawl.
type Extractor struct {
	globs *globCache
}

func New() *Extractor {
	return &Extractor{globs: newGlobCache()}
}

// Extract parses pageHTML (whose base is pageURL) and returns the
// filtered, deduplicated, absolute links it contains, in document
// order.
func (e *Extractor) Extract(pageURL, pageHTML string, opts Options) ([]crawlmodel.ExtractedLink, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	pathPrefix := opts.PathPrefix
	if pathPrefix != "" && !strings.HasPrefix(pathPrefix, "/") {
		pathPrefix = "/" + pathPrefix
	}

	seen := make(map[string]bool)
	var links []crawlmodel.ExtractedLink

	var walkErr error
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || hasSkippedScheme(href) {
			return true
		}

		resolved, parseErr := base.Parse(href)
		if parseErr != nil {
			return true
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		resolved.Fragment = ""
		resolved.RawQuery = ""

		if opts.SameDomainOnly && resolved.Host != base.Host {
			return true
		}

		if pathPrefix != "" && !pathBoundaryMatch(resolved.Path, pathPrefix) {
			return true
		}

		if len(opts.IncludePatterns) > 0 {
			matched, err := e.globs.matchesAny(opts.IncludePatterns, resolved.Path)
			if err != nil {
				walkErr = err
				return false
			}
			if !matched {
				return true
			}
		}
		if len(opts.ExcludePatterns) > 0 {
			matched, err := e.globs.matchesAny(opts.ExcludePatterns, resolved.Path)
			if err != nil {
				walkErr = err
				return false
			}
			if matched {
				return true
			}
		}

		absolute := resolved.String()
		if seen[absolute] {
			return true
		}
		seen[absolute] = true

		links = append(links, crawlmodel.NewExtractedLink(absolute, collapseWhitespace(sel.Text()), contextFor(sel)))
		return true
	})

	if walkErr != nil {
		return nil, walkErr
	}

	return links, nil
}

// pathBoundaryMatch reports whether pathname starts with prefix at a
// path boundary: equal, prefix ends in "/", or the next character is
// "/".
func pathBoundaryMatch(pathname, prefix string) bool {
	if !strings.HasPrefix(pathname, prefix) {
		return false
	}
	if pathname == prefix || strings.HasSuffix(prefix, "/") {
		return true
	}
	return len(pathname) > len(prefix) && pathname[len(prefix)] == '/'
}

func hasSkippedScheme(href string) bool {
	lowered := strings.ToLower(href)
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(lowered, scheme) {
			return true
		}
	}
	return false
}

// contextFor walks up from the anchor to the nearest block-level
// ancestor and returns its collapsed-whitespace text, truncated to 200
// characters. Falls back to the anchor's own text if no such ancestor
// exists.
func contextFor(anchor *goquery.Selection) string {
	if len(anchor.Nodes) == 0 {
		return ""
	}

	for node := anchor.Nodes[0].Parent; node != nil; node = node.Parent {
		if node.Type == html.ElementNode && blockLevelTags[node.Data] {
			text := collapseWhitespace(goquery.NewDocumentFromNode(node).Text())
			return truncate(text, maxContextChars)
		}
	}

	return truncate(collapseWhitespace(anchor.Text()), maxContextChars)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
