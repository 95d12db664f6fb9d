package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// Attempt is what a wrapped call reports back about a single HTTP
// attempt: its status code (0 for a call that never produced an HTTP
// response — a network-level failure) and, for a 429, the parsed
// Retry-After value if the server sent one.
type Attempt struct {
	StatusCode int
	RetryAfter *time.Duration
}

func (a Attempt) isServerError() bool {
	return a.StatusCode >= 500 && a.StatusCode < 600
}

func (a Attempt) isTooManyRequests() bool {
	return a.StatusCode == 429
}

// hostState is the per-host mutable timing the limiter adapts as calls
// complete: the current delay D, the baseline floor D0, the
// consecutive-success counter that drives D back down, and the token
// bucket that actually paces calls at the current D.
type hostState struct {
	delay           time.Duration
	floor           time.Duration
	consecutiveGood int
	bucket          *rate.Limiter
}

// rateFromDelay converts a per-call delay into the equivalent steady
// token-bucket rate: one token every d.
func rateFromDelay(d time.Duration) rate.Limit {
	if d <= 0 {
		return rate.Inf
	}
	return rate.Every(d)
}
