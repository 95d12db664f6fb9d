// Package convert composes the three conversion layers described for
// the converter façade: an LLM-backed strategy selector, an LLM-backed
// Markdown optimizer, and the façade that decides which of them run
// for a given page. Grounded on the teacher's mdconvert package for
// Layer 1 (internal/mdconvert here) and on the llm package for the
// Anthropic-backed call sites the original scaffold left unimplemented.
package convert

import (
	"context"
	"strconv"
	"strings"

	"github.com/ronpik/website-fetch/internal/llm"
	"github.com/ronpik/website-fetch/internal/mdconvert"
)

const (
	selectorCallSite  = "strategy-selector"
	selectorHTMLChars = 2000
)

type selectorChoice struct {
	Strategy string `json:"strategy"`
}

// selectStrategy asks provider to choose between "default" and
// "readability" for htmlContent. Any failure returns fallback
// unchanged.
func selectStrategy(ctx context.Context, provider llm.Provider, htmlContent, pageURL, model string, fallback mdconvert.Strategy) mdconvert.Strategy {
	excerpt := htmlContent
	if len(excerpt) > selectorHTMLChars {
		excerpt = excerpt[:selectorHTMLChars]
	}

	prompt := "You are choosing how to convert a web page to Markdown.\n" +
		"Page URL: " + pageURL + "\n" +
		"First " + strconv.Itoa(len(excerpt)) + " characters of HTML:\n" + excerpt + "\n\n" +
		"Reply with which base strategy best fits this page: \"default\" for a straightforward " +
		"structural conversion, or \"readability\" when the page is cluttered with navigation, " +
		"ads, or boilerplate around the main article."

	var choice selectorChoice
	err := provider.InvokeStructured(ctx, prompt, llm.SchemaOf(&choice), llm.Options{CallSite: selectorCallSite, Model: model}, &choice)
	if err != nil {
		return fallback
	}

	switch strings.ToLower(strings.TrimSpace(choice.Strategy)) {
	case string(mdconvert.StrategyDefault):
		return mdconvert.StrategyDefault
	case string(mdconvert.StrategyReadability):
		return mdconvert.StrategyReadability
	default:
		return fallback
	}
}
