// Package metadata records observability events for a crawl: per-fetch
// timing, classified errors, written artifacts, and the terminal crawl
// summary. Nothing here drives control flow — ErrorCause is a closed
// classification for logging and reporting only. Grounded on the
// teacher's internal/metadata data shapes (FetchEvent, ErrorCause
// table, Attribute/AttributeKey), which the teacher itself left as an
// unimplemented scaffold; the recorder here is new and backed by
// rohmanhakim/dlog, the teacher's own structured-logging dependency.
package metadata

import "time"

// FetchEvent is recorded once per successful fetch; failed fetches are
// recorded through RecordError instead.
type FetchEvent struct {
	URL         string
	HTTPStatus  int
	Duration    time.Duration
	ContentType string
	RetryCount  int
	CrawlDepth  int
}

// ErrorCause is a closed, canonical classification used exclusively
// for observability. It must never drive retry, continuation, or
// abort decisions — those are governed by failure.Severity.
type ErrorCause int

const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseLLMFailure
	CauseInvariantViolation
)

// CrawlStats is the terminal, derived summary of a completed crawl.
// Computed once, after termination; never read back into scheduling.
type CrawlStats struct {
	TotalPages   int
	TotalSkipped int
	TotalErrors  int
	DurationMs   int64
}

// ArtifactKind names the kind of file an ArtifactRecord describes.
type ArtifactKind string

const (
	ArtifactMarkdown  ArtifactKind = "markdown"
	ArtifactIndex     ArtifactKind = "index"
	ArtifactAggregate ArtifactKind = "aggregate"
	ArtifactAsset     ArtifactKind = "asset"
)

type ArtifactRecord struct {
	Kind ArtifactKind
	Path string
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrDepth      AttributeKey = "depth"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrWritePath  AttributeKey = "write_path"
	AttrCallSite   AttributeKey = "call_site"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, value string) Attribute {
	return Attribute{Key: key, Value: value}
}
