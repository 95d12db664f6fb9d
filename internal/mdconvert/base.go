package mdconvert

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
)

// Default runs htmlContent through an HTML-to-Markdown conversion
// configured for ATX headings, "-" bullets, fenced code blocks, "**"
// strong and "_" emphasis, with script/style stripped and GFM tables
// synthesized per the commonmark/table plugin pair's native behavior.
// Grounded on the teacher's mdconvert.convert.
func Default(htmlContent, pageURL string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", &Error{Cause: ErrCauseConversionFailure, Underlying: err}
	}
	doc.Find("script, style").Remove()

	html, err := doc.Html()
	if err != nil {
		return "", &Error{Cause: ErrCauseConversionFailure, Underlying: err}
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(commonmark.WithEmDelimiter("_")),
			table.NewTablePlugin(),
		),
	)

	markdown, err := conv.ConvertString(html)
	if err != nil {
		return "", &Error{Cause: ErrCauseConversionFailure, Underlying: err}
	}

	return string(markdown), nil
}
