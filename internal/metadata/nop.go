package metadata

import "time"

// NopSink discards every record; used in tests and anywhere a caller
// doesn't care about observability output.
type NopSink struct{}

func (NopSink) RecordFetch(FetchEvent)                                                       {}
func (NopSink) RecordError(time.Time, string, string, ErrorCause, string, []Attribute) {}
func (NopSink) RecordArtifact(ArtifactKind, string, []Attribute)                              {}
func (NopSink) RecordStats(CrawlStats)                                                        {}
