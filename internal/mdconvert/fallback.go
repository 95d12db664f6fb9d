package mdconvert

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// fallbackExtract isolates the main documentation content of htmlContent
// when go-readability yields nothing usable. It is a condensed port of
// the teacher's DOM content extractor: semantic containers first, then
// known documentation-framework selectors, then chrome removal plus
// text-density scoring over the remaining div/section/body candidates.
// Returns ok=false when no layer finds anything meaningful, in which
// case the caller should fall back to converting the raw HTML.
func fallbackExtract(htmlContent string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", false
	}

	if sel := firstMeaningfulMatch(doc.Selection, semanticContainerSelectors); sel != nil {
		return outerHTML(sel)
	}

	if sel := firstMeaningfulMatch(doc.Selection, knownDocSelectors); sel != nil {
		return outerHTML(sel)
	}

	doc.Find("nav, header, footer, aside").Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if hasChromeAttribute(s) {
			s.Remove()
		}
	})

	if sel := bestScoredCandidate(doc.Selection); sel != nil && isMeaningful(sel) {
		return outerHTML(sel)
	}

	return "", false
}

func outerHTML(sel *goquery.Selection) (string, bool) {
	html, err := goquery.OuterHtml(sel)
	if err != nil || strings.TrimSpace(html) == "" {
		return "", false
	}
	return html, true
}

// semanticContainerSelectors is Layer 1: elements whose tag/role already
// declares them to be the main content.
var semanticContainerSelectors = []string{"main", "article", "[role='main']"}

// knownDocSelectors is Layer 2: container classes/ids used by common
// documentation site generators, generic entries first.
var knownDocSelectors = []string{
	".content", ".doc-content", ".markdown-body", "#docs-content",
	".rst-content", ".theme-doc-markdown", ".md-content",
	".docMainContainer", ".document", ".book-body", ".markdown-section",
	".md-main__inner", ".theme-default-content", ".content__default",
	"#main", ".post-content", ".article-content", ".entry-content",
}

func firstMeaningfulMatch(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		match := root.Find(selector).First()
		if match.Length() > 0 && isMeaningful(match) {
			return match
		}
	}
	return nil
}

// chromeAttributeKeywords flags elements as non-content by class/id,
// covering the chrome explicit tags don't (sidebars, cookie banners,
// version/language switchers, edit-this-page links).
var chromeAttributeKeywords = []string{
	"nav", "sidebar", "menu", "breadcrumb",
	"search", "footer", "header", "cookie",
	"consent", "version", "language", "theme",
	"edit", "github",
}

func hasChromeAttribute(s *goquery.Selection) bool {
	for _, attr := range []string{"class", "id"} {
		val, ok := s.Attr(attr)
		if !ok {
			continue
		}
		lower := strings.ToLower(val)
		for _, keyword := range chromeAttributeKeywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}

// bestScoredCandidate is Layer 3: score every div/section/body by text
// density and pick the highest, biased against settling for <body>
// itself when a child scores close behind it.
func bestScoredCandidate(root *goquery.Selection) *goquery.Selection {
	candidates := root.Find("div, section, body")
	if candidates.Length() == 0 {
		return nil
	}

	type scored struct {
		sel   *goquery.Selection
		score float64
	}
	var all []scored
	var body *scored

	candidates.Each(func(_ int, s *goquery.Selection) {
		entry := scored{sel: s, score: contentScore(s)}
		all = append(all, entry)
		if goquery.NodeName(s) == "body" {
			b := entry
			body = &b
		}
	})

	best := all[0]
	for _, entry := range all[1:] {
		if entry.score > best.score {
			best = entry
		}
	}

	const bodySpecificityBias = 0.5
	if body != nil && best.sel == body.sel {
		for _, entry := range all {
			if entry.sel == body.sel {
				continue
			}
			if entry.score >= bodySpecificityBias*body.score && entry.score > best.score*0.9 {
				best = entry
				break
			}
		}
	}

	return best.sel
}

const linkDensityThreshold = 0.5

// contentScore weighs a candidate the way the teacher's extractor does:
// characters and structural elements count for content, a high ratio of
// link text to total text counts against it (nav-like blocks).
func contentScore(s *goquery.Selection) float64 {
	text := s.Text()
	nonWhitespace := countNonWhitespace(text)

	score := float64(nonWhitespace) / 50.0
	score += float64(s.Find("p").Length()) * 5.0
	score += float64(s.Find("h1, h2, h3").Length()) * 10.0
	score += float64(s.Find("pre code, code").Length()) * 15.0
	score += float64(s.Find("li").Length()) * 2.0

	if textLen := len(text); textLen > 0 {
		linkTextLen := 0
		s.Find("a").Each(func(_ int, a *goquery.Selection) {
			linkTextLen += len(strings.TrimSpace(a.Text()))
		})
		density := float64(linkTextLen) / float64(textLen)
		if density > linkDensityThreshold {
			score -= (density - linkDensityThreshold) * score
		}
	}

	return score
}

// isMeaningful rejects containers that are mostly whitespace or mostly
// navigation links, the same bar every extraction layer applies.
func isMeaningful(s *goquery.Selection) bool {
	text := s.Text()
	nonWhitespace := countNonWhitespace(text)
	if nonWhitespace < 50 {
		return false
	}

	links := s.Find("a")
	if textLen := len(text); textLen > 0 && links.Length() > 2 {
		linkTextLen := 0
		links.Each(func(_ int, a *goquery.Selection) {
			linkTextLen += len(strings.TrimSpace(a.Text()))
		})
		if float64(linkTextLen)/float64(textLen) > 0.8 {
			return false
		}
	}

	hasContent := s.Find("p").Length() > 0 || s.Find("pre, code").Length() > 0
	hasHeadingsWithText := s.Find("h1, h2, h3, h4, h5, h6").Length() > 0 && nonWhitespace >= 20
	return hasContent || hasHeadingsWithText
}

func countNonWhitespace(s string) int {
	count := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}
