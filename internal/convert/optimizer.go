package convert

import (
	"context"
	"strings"

	"github.com/ronpik/website-fetch/internal/llm"
)

const (
	optimizerEvalCallSite  = "optimizer-evaluate"
	optimizerApplyCallSite = "optimizer-apply"
	optimizerHTMLChars     = 8000
	optimizerMarkdownChars = 8000
)

type optimizerEvaluation struct {
	Acceptable   bool     `json:"acceptable"`
	Issues       []string `json:"issues,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

// optimize runs up to maxIterations rounds of evaluate-then-apply over
// markdown, per the Layer 3 optimizer contract: any LLM error at either
// step returns the best Markdown produced so far.
func optimize(ctx context.Context, provider llm.Provider, htmlContent, markdown, model string, maxIterations int) string {
	current := markdown

	htmlExcerpt := htmlContent
	if len(htmlExcerpt) > optimizerHTMLChars {
		htmlExcerpt = htmlExcerpt[:optimizerHTMLChars]
	}

	for i := 0; i < maxIterations; i++ {
		mdExcerpt := current
		if len(mdExcerpt) > optimizerMarkdownChars {
			mdExcerpt = mdExcerpt[:optimizerMarkdownChars]
		}

		var eval optimizerEvaluation
		prompt := "Evaluate this Markdown conversion of an HTML page for accuracy and completeness.\n\n" +
			"HTML (excerpt):\n" + htmlExcerpt + "\n\nMarkdown:\n" + mdExcerpt
		if err := provider.InvokeStructured(ctx, prompt, llm.SchemaOf(&eval), llm.Options{CallSite: optimizerEvalCallSite, Model: model}, &eval); err != nil {
			return current
		}
		if eval.Acceptable || strings.TrimSpace(eval.Instructions) == "" {
			return current
		}

		applyPrompt := "Apply the following instructions to the Markdown below and return only the " +
			"resulting raw Markdown, with no commentary.\n\nInstructions:\n" + eval.Instructions +
			"\n\nMarkdown:\n" + current
		revised, err := provider.Invoke(ctx, applyPrompt, llm.Options{CallSite: optimizerApplyCallSite, Model: model})
		if err != nil {
			return current
		}
		if strings.TrimSpace(revised) == "" {
			return current
		}
		current = revised
	}

	return current
}
