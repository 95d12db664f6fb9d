package metadata

import (
	"time"

	"github.com/rohmanhakim/dlog"
)

// Sink is the observability surface every pipeline package records
// through. One Sink is shared across a whole crawl.
type Sink interface {
	RecordFetch(event FetchEvent)
	RecordError(observedAt time.Time, packageName, action string, cause ErrorCause, message string, attrs []Attribute)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
	RecordStats(stats CrawlStats)
}

// DlogSink is the production Sink, backed by the teacher's own
// structured-logging dependency.
type DlogSink struct {
	logger dlog.Logger
}

func NewDlogSink() *DlogSink {
	return &DlogSink{logger: dlog.New()}
}

func (s *DlogSink) RecordFetch(event FetchEvent) {
	s.logger.Info("fetch",
		"url", event.URL,
		"status", event.HTTPStatus,
		"duration_ms", event.Duration.Milliseconds(),
		"content_type", event.ContentType,
		"retry_count", event.RetryCount,
		"depth", event.CrawlDepth,
	)
}

func (s *DlogSink) RecordError(observedAt time.Time, packageName, action string, cause ErrorCause, message string, attrs []Attribute) {
	fields := []any{"package", packageName, "action", action, "cause", cause, "message", message, "observed_at", observedAt}
	for _, attr := range attrs {
		fields = append(fields, string(attr.Key), attr.Value)
	}
	s.logger.Error("pipeline error", fields...)
}

func (s *DlogSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	fields := []any{"kind", kind, "path", path}
	for _, attr := range attrs {
		fields = append(fields, string(attr.Key), attr.Value)
	}
	s.logger.Info("artifact written", fields...)
}

func (s *DlogSink) RecordStats(stats CrawlStats) {
	s.logger.Info("crawl finished",
		"total_pages", stats.TotalPages,
		"total_skipped", stats.TotalSkipped,
		"total_errors", stats.TotalErrors,
		"duration_ms", stats.DurationMs,
	)
}
