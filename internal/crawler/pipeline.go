package crawler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/internal/httpfetch"
	"github.com/ronpik/website-fetch/internal/linkextract"
	"github.com/ronpik/website-fetch/internal/metadata"
)

// fetchConvertWrite runs one page through fetch -> convert -> write,
// the step every mode shares, threading every stage's outcome into the
// shared metadata.Sink (§2) alongside the Observer callbacks. depth is
// recorded on the resulting page; agent mode always passes 0.
func (e *Engine) fetchConvertWrite(ctx context.Context, rawURL string, depth int) (crawlmodel.FetchedPage, error) {
	fetchStart := time.Now()
	raw, fetchErr := e.fetcher.Fetch(ctx, rawURL)
	if fetchErr != nil {
		e.sink.RecordError(time.Now(), "httpfetch", "Fetch", fetchErrorCause(fetchErr), fetchErr.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, rawURL), metadata.NewAttr(metadata.AttrDepth, strconv.Itoa(depth))})
		return crawlmodel.FetchedPage{}, fetchErr
	}
	e.sink.RecordFetch(metadata.FetchEvent{
		URL:         raw.URL(),
		HTTPStatus:  raw.StatusCode(),
		Duration:    time.Since(fetchStart),
		ContentType: raw.Headers()["content-type"],
		CrawlDepth:  depth,
	})

	markdown, convErr := e.converter.Convert(ctx, raw.Body(), raw.URL())
	if convErr != nil {
		e.sink.RecordError(time.Now(), "convert", "Convert", metadata.CauseContentInvalid, convErr.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, raw.URL())})
		return crawlmodel.FetchedPage{}, convErr
	}

	if e.assets != nil {
		markdown = e.assets.Resolve(ctx, raw.URL(), markdown, e.cfg.OutputDir())
	}

	page := crawlmodel.NewFetchedPage(raw, markdown, extractTitle(raw.Body()), depth)

	path, writeErr := e.writer.WritePage(page)
	if writeErr != nil {
		e.sink.RecordError(time.Now(), "output", "WritePage", metadata.CauseStorageFailure, writeErr.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, raw.URL())})
		return crawlmodel.FetchedPage{}, writeErr
	}
	e.sink.RecordArtifact(metadata.ArtifactMarkdown, path, []metadata.Attribute{metadata.NewAttr(metadata.AttrURL, raw.URL())})

	return page, nil
}

// fetchErrorCause maps a fetch failure onto the closed ErrorCause
// vocabulary metadata uses for reporting; robots disallowance is a
// policy decision, every other fetch failure is a network-layer one.
func fetchErrorCause(err *httpfetch.Error) metadata.ErrorCause {
	if err.Cause == httpfetch.ErrCauseRobotsDisallowed {
		return metadata.CausePolicyDisallow
	}
	return metadata.CauseNetworkFailure
}

func (e *Engine) linkOptions() linkextract.Options {
	return linkextract.Options{
		SameDomainOnly:  true,
		IncludePatterns: e.cfg.IncludePatterns(),
		ExcludePatterns: e.cfg.ExcludePatterns(),
	}
}

// linkOptionsWithPrefix is linkOptions plus the configured path
// prefix, used everywhere except the simple crawler's own link
// extraction step (see the simple-mode prefix Open Question).
func (e *Engine) linkOptionsWithPrefix() linkextract.Options {
	opts := e.linkOptions()
	opts.PathPrefix = e.cfg.PathPrefix()
	return opts
}

func (e *Engine) extractLinks(pageURL, body string, opts linkextract.Options) []crawlmodel.ExtractedLink {
	links, err := e.extractor.Extract(pageURL, body, opts)
	if err != nil {
		return nil
	}
	return links
}

func extractTitle(htmlBody string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
