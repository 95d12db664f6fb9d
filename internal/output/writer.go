// Package output writes fetched, converted pages to disk and produces
// the optional INDEX.md and aggregated.md artifacts. Grounded on the
// teacher's internal/storage.Sink (directory-ensure-then-write shape,
// ClassifiedError wrapping) but keyed on the page's URL path instead
// of a content hash, per the mirror/flat output layout.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ronpik/website-fetch/internal/config"
	"github.com/ronpik/website-fetch/internal/crawlmodel"
	"github.com/ronpik/website-fetch/pkg/fileutil"
)

type Writer struct {
	outputDir string
	structure config.OutputStructure
}

func New(outputDir string, structure config.OutputStructure) *Writer {
	return &Writer{outputDir: outputDir, structure: structure}
}

// WritePage writes page's Markdown to its mirror/flat-derived path
// under outputDir and returns that relative path.
func (w *Writer) WritePage(page crawlmodel.FetchedPage) (string, *Error) {
	relPath := urlToFilePath(page.URL(), w.structure)
	fullPath := filepath.Join(w.outputDir, filepath.FromSlash(relPath))

	if err := fileutil.EnsureDir(filepath.Dir(fullPath)); err != nil {
		return "", &Error{Path: fullPath, Cause: ErrCausePathError, Underlying: err}
	}

	if err := os.WriteFile(fullPath, []byte(page.Markdown()), 0644); err != nil {
		return "", &Error{Path: fullPath, Cause: ErrCauseWriteFailure, Underlying: err}
	}

	return relPath, nil
}

// WriteIndex writes an INDEX.md at the output root listing every page
// by title (falling back to URL) with a relative link to its file.
func (w *Writer) WriteIndex(pages []crawlmodel.FetchedPage, relPaths map[string]string) (string, *Error) {
	var b strings.Builder
	b.WriteString("# Index\n\n")
	for _, page := range pages {
		title := page.Title()
		if title == "" {
			title = page.URL()
		}
		b.WriteString(fmt.Sprintf("- [%s](%s)\n", title, relPaths[page.URL()]))
	}

	path := filepath.Join(w.outputDir, "INDEX.md")
	if err := fileutil.EnsureDir(w.outputDir); err != nil {
		return "", &Error{Path: path, Cause: ErrCausePathError, Underlying: err}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", &Error{Path: path, Cause: ErrCauseWriteFailure, Underlying: err}
	}
	return path, nil
}

// WriteAggregate concatenates every page's Markdown, separated by a
// source-URL heading, into a single aggregated.md at the output root.
func (w *Writer) WriteAggregate(pages []crawlmodel.FetchedPage) (string, *Error) {
	var b strings.Builder
	for i, page := range pages {
		if i > 0 {
			b.WriteString("\n\n---\n\n")
		}
		b.WriteString(fmt.Sprintf("<!-- source: %s -->\n\n", page.URL()))
		b.WriteString(page.Markdown())
	}

	path := filepath.Join(w.outputDir, "aggregated.md")
	if err := fileutil.EnsureDir(w.outputDir); err != nil {
		return "", &Error{Path: path, Cause: ErrCausePathError, Underlying: err}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", &Error{Path: path, Cause: ErrCauseWriteFailure, Underlying: err}
	}
	return path, nil
}
