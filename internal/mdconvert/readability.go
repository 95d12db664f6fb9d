package mdconvert

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Readability parses the full document against pageURL and runs a
// content-extraction pass; if it yields non-empty article HTML, that
// HTML is fed through Default. No pack repo implements readability
// extraction itself, so this reaches for the ecosystem library built
// for exactly this concern. When go-readability yields nothing,
// fallbackExtract (the teacher's own DOM heuristic, adapted) gets a
// turn before giving up and converting the raw HTML as-is.
func Readability(htmlContent, pageURL string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", nil
	}

	parsed, parseErr := url.Parse(pageURL)
	if parseErr != nil {
		return convertWithFallback(htmlContent, pageURL)
	}

	article, err := readability.FromReader(strings.NewReader(htmlContent), parsed)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return convertWithFallback(htmlContent, pageURL)
	}

	return Default(article.Content, pageURL)
}

func convertWithFallback(htmlContent, pageURL string) (string, error) {
	if extracted, ok := fallbackExtract(htmlContent); ok {
		return Default(extracted, pageURL)
	}
	return Default(htmlContent, pageURL)
}
