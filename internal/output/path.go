package output

import (
	"net/url"
	"strings"

	"github.com/ronpik/website-fetch/internal/config"
)

// urlToFilePath derives the relative, slash-separated path under
// outputDir a page's Markdown is written to. Mirror mode keeps the
// URL's path segments as directories (`/a/b` -> `a/b.md`); a trailing
// slash or the root path writes `index.md` instead. Flat mode
// collapses every "/" in the path into "_" and writes into a single
// directory.
// RelativePath is the exported form of urlToFilePath, for callers
// (index generation) that need to know a page's path without writing
// it.
func RelativePath(rawURL string, structure config.OutputStructure) string {
	return urlToFilePath(rawURL, structure)
}

func urlToFilePath(rawURL string, structure config.OutputStructure) string {
	parsed, err := url.Parse(rawURL)
	path := "/"
	if err == nil {
		path = parsed.Path
	}
	if path == "" {
		path = "/"
	}

	if structure == config.OutputFlat {
		trimmed := strings.Trim(path, "/")
		if trimmed == "" {
			return "index.md"
		}
		return sanitizeSegment(strings.ReplaceAll(trimmed, "/", "_")) + ".md"
	}

	if path == "/" || strings.HasSuffix(path, "/") {
		segments := splitNonEmpty(path)
		dir := strings.Join(segments, "/")
		if dir == "" {
			return "index.md"
		}
		return dir + "/index.md"
	}

	segments := splitNonEmpty(path)
	for i, seg := range segments {
		segments[i] = sanitizeSegment(seg)
	}
	return strings.Join(segments, "/") + ".md"
}

func splitNonEmpty(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// sanitizeSegment strips characters that are unsafe as path segments
// on common filesystems.
func sanitizeSegment(segment string) string {
	replacer := strings.NewReplacer(
		"?", "_", "*", "_", ":", "_", "|", "_", "\"", "_", "<", "_", ">", "_",
	)
	return replacer.Replace(segment)
}
