// Package assets is the optional image-download pass described as a
// spec supplement: when enabled, it downloads the images a converted
// page's Markdown references into <outputDir>/assets/ and rewrites the
// Markdown to point at the local copies. Grounded on the teacher's
// internal/assets.Resolver (URL resolution, content-hash dedup, retry,
// Markdown rewriting via regex), adapted to operate directly on a
// Markdown string instead of the teacher's mdconvert.ConversionResult
// link-ref list, since this mdconvert layer returns plain Markdown.
package assets

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ronpik/website-fetch/internal/metadata"
	"github.com/ronpik/website-fetch/pkg/failure"
	"github.com/ronpik/website-fetch/pkg/fileutil"
	"github.com/ronpik/website-fetch/pkg/hashutil"
	"github.com/ronpik/website-fetch/pkg/retry"
)

// imageRef matches Markdown image syntax: ![alt](url).
var imageRef = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// Resolver downloads and deduplicates image assets across the whole
// crawl; one Resolver is shared by every page so a second page linking
// to an already-downloaded image reuses its local path without
// re-fetching.
type Resolver struct {
	httpClient   *http.Client
	userAgent    string
	maxAssetSize int64
	retryParam   retry.Param
	sink         metadata.Sink

	mu         sync.Mutex
	hashByURL  map[string]string
	pathByHash map[string]string
}

func New(userAgent string, maxAssetSize int64, retryParam retry.Param, sink metadata.Sink) *Resolver {
	if sink == nil {
		sink = metadata.NopSink{}
	}
	return &Resolver{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    userAgent,
		maxAssetSize: maxAssetSize,
		retryParam:   retryParam,
		sink:         sink,
		hashByURL:    make(map[string]string),
		pathByHash:   make(map[string]string),
	}
}

// Resolve downloads every image imageRef finds in markdown, writes each
// into outputDir/assets, and returns markdown with successfully
// downloaded references rewritten to their local path. References that
// fail to resolve or download are left untouched - missing assets are
// reported via the sink, never fatal to the page.
func (r *Resolver) Resolve(ctx context.Context, pageURL, markdown, outputDir string) string {
	matches := imageRef.FindAllStringSubmatch(markdown, -1)
	if len(matches) == 0 {
		return markdown
	}

	rewrites := make(map[string]string, len(matches))
	for _, m := range matches {
		raw := m[2]
		if _, exists := rewrites[raw]; exists {
			continue
		}
		abs, err := resolveAssetURL(pageURL, raw)
		if err != nil {
			continue
		}
		if localPath, ok := r.fetchAndStore(ctx, abs, outputDir); ok {
			rewrites[raw] = localPath
		}
	}
	if len(rewrites) == 0 {
		return markdown
	}

	return imageRef.ReplaceAllStringFunc(markdown, func(match string) string {
		sub := imageRef.FindStringSubmatch(match)
		if len(sub) < 3 {
			return match
		}
		if localPath, ok := rewrites[sub[2]]; ok {
			return "![" + sub[1] + "](" + localPath + ")"
		}
		return match
	})
}

func resolveAssetURL(pageURL, raw string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

func (r *Resolver) fetchAndStore(ctx context.Context, assetURL, outputDir string) (string, bool) {
	r.mu.Lock()
	if hash, ok := r.hashByURL[assetURL]; ok {
		path := r.pathByHash[hash]
		r.mu.Unlock()
		return path, path != ""
	}
	r.mu.Unlock()

	data, err := retry.Do(r.retryParam, func() ([]byte, failure.ClassifiedError) {
		return r.performFetch(ctx, assetURL)
	})
	if err != nil {
		r.sink.RecordError(time.Now(), "assets", "Resolver.Resolve", metadata.CauseNetworkFailure, err.Error(), []metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, assetURL),
		})
		return "", false
	}

	hash, hashErr := hashutil.HashBytes(data, hashutil.HashAlgoBLAKE3)
	if hashErr != nil {
		return "", false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.pathByHash[hash]; ok {
		r.hashByURL[assetURL] = hash
		return existing, true
	}

	localPath := buildAssetPath(assetURL, hash)
	fullPath := filepath.Join(outputDir, localPath)
	if ferr := fileutil.EnsureDir(filepath.Dir(fullPath)); ferr != nil {
		return "", false
	}
	if werr := os.WriteFile(fullPath, data, 0o644); werr != nil {
		r.sink.RecordError(time.Now(), "assets", "Resolver.Resolve", metadata.CauseStorageFailure, werr.Error(), []metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, assetURL),
			metadata.NewAttr(metadata.AttrWritePath, fullPath),
		})
		return "", false
	}

	r.hashByURL[assetURL] = hash
	r.pathByHash[hash] = localPath
	r.sink.RecordArtifact(metadata.ArtifactAsset, localPath, []metadata.Attribute{
		metadata.NewAttr(metadata.AttrURL, assetURL),
	})
	return localPath, true
}

func (r *Resolver) performFetch(ctx context.Context, assetURL string) ([]byte, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, &Error{URL: assetURL, Cause: ErrCauseNetwork, Retryable: false, Underlying: err}
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: assetURL, Cause: ErrCauseNetwork, Retryable: true, Underlying: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &Error{URL: assetURL, Cause: ErrCauseHTTPStatus, Retryable: true}
	case resp.StatusCode >= 400:
		return nil, &Error{URL: assetURL, Cause: ErrCauseHTTPStatus, Retryable: false}
	}

	if resp.ContentLength > r.maxAssetSize {
		return nil, &Error{URL: assetURL, Cause: ErrCauseTooLarge, Retryable: false}
	}

	limited := io.LimitReader(resp.Body, r.maxAssetSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, &Error{URL: assetURL, Cause: ErrCauseNetwork, Retryable: true, Underlying: err}
	}
	if int64(len(data)) > r.maxAssetSize {
		return nil, &Error{URL: assetURL, Cause: ErrCauseTooLarge, Retryable: false}
	}

	return data, nil
}

// buildAssetPath names a downloaded asset assets/<original-basename>-<short-hash>.<ext>,
// matching the teacher's stable, content-addressed naming scheme.
func buildAssetPath(assetURL, hash string) string {
	base, ext := "asset", ""
	if u, err := url.Parse(assetURL); err == nil {
		ext = strings.TrimPrefix(filepath.Ext(u.Path), ".")
		name := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
		if sanitized := sanitizeName(name); sanitized != "" {
			base = sanitized
		}
	}

	short := hash
	if len(short) > 7 {
		short = short[:7]
	}

	filename := base + "-" + short
	if ext != "" {
		filename += "." + ext
	}
	return filepath.Join("assets", filename)
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}
