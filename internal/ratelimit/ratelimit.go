// Package ratelimit wraps per-host HTTP attempts with an adaptive
// sleep-then-call discipline: a baseline delay that backs off on 5xx
// and 429 responses and eases back down after a run of successes. The
// baseline pacing itself is a golang.org/x/time/rate token bucket per
// host, reconfigured in place as the adaptive delay changes.
// Grounded on the teacher's pkg/limiter.ConcurrentRateLimiter — same
// per-host map + mutex shape — but restructured as an Execute-style
// wrapper, since §4.3 specifies the limiter itself drives the retry
// loop around the call rather than just resolving a sleep duration for
// the caller to apply.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const successesToEase = 10
const easeFactor = 0.8

// Limiter tracks delay state per host and serializes the
// sleep-then-call discipline around every submitted call.
type Limiter struct {
	mu          sync.Mutex
	baseDelay   time.Duration
	maxRetries  int
	adaptive    bool
	rng         *rand.Rand
	hosts       map[string]*hostState
}

func New(baseDelay time.Duration, maxRetries int, adaptive bool, randomSeed int64) *Limiter {
	return &Limiter{
		baseDelay:  baseDelay,
		maxRetries: maxRetries,
		adaptive:   adaptive,
		rng:        rand.New(rand.NewSource(randomSeed)),
		hosts:      make(map[string]*hostState),
	}
}

func (l *Limiter) stateFor(host string) *hostState {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.hosts[host]
	if !ok {
		state = &hostState{
			delay:  l.baseDelay,
			floor:  l.baseDelay,
			bucket: rate.NewLimiter(rateFromDelay(l.baseDelay), 1),
		}
		// A fresh limiter starts with a full bucket, which would let the
		// very first call through with no wait. Drain it so every host's
		// first request is paced the same as every later one.
		state.bucket.Allow()
		l.hosts[host] = state
	}
	return state
}

// SetCrawlDelayFloor raises host's baseline delay D0 to at least floor,
// and raises the current delay D to match if it was lower. Used by the
// fetcher to honor a robots.txt Crawl-delay.
func (l *Limiter) SetCrawlDelayFloor(host string, floor time.Duration) {
	state := l.stateFor(host)

	l.mu.Lock()
	defer l.mu.Unlock()
	if floor > state.floor {
		state.floor = floor
	}
	if state.delay < state.floor {
		state.delay = state.floor
		state.bucket.SetLimit(rateFromDelay(state.delay))
	}
}

// CallFunc performs one HTTP attempt and reports its outcome. A
// non-nil error represents a failure that never produced an HTTP
// response (DNS, connection refused, context deadline, ...).
type CallFunc func(ctx context.Context) (Attempt, error)

// Submit sleeps the host's current delay, then attempts call up to
// maxRetries+1 times. Only a 5xx response is retried; a 429 adjusts
// delay and returns immediately (it is the caller's job to surface a
// retryable failure upward, since the limiter itself never retries a
// 429); any other error or non-2xx status returns immediately without
// adjusting delay.
func (l *Limiter) Submit(ctx context.Context, host string, call CallFunc) (Attempt, error) {
	state := l.stateFor(host)

	if err := state.bucket.Wait(ctx); err != nil {
		return Attempt{}, err
	}

	var lastAttempt Attempt
	var lastErr error

	for attempt := 1; attempt <= l.maxRetries+1; attempt++ {
		lastAttempt, lastErr = call(ctx)

		switch {
		case lastErr == nil && lastAttempt.StatusCode < 400:
			l.onSuccess(state)
			return lastAttempt, nil

		case lastAttempt.isServerError():
			l.onServerError(state)
			if attempt == l.maxRetries+1 {
				return lastAttempt, lastErr
			}
			backoff := l.currentDelay(state) * time.Duration(1<<uint(attempt+1))
			if err := sleepCtx(ctx, backoff); err != nil {
				return lastAttempt, err
			}
			continue

		case lastAttempt.isTooManyRequests():
			l.onTooManyRequests(state, lastAttempt.RetryAfter)
			return lastAttempt, lastErr

		default:
			// Any other error, including 4xx other than 429: propagate
			// immediately, no retry.
			return lastAttempt, lastErr
		}
	}

	return lastAttempt, lastErr
}

func (l *Limiter) currentDelay(state *hostState) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return state.delay
}

func (l *Limiter) onSuccess(state *hostState) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state.consecutiveGood++
	if l.adaptive && state.consecutiveGood >= successesToEase {
		eased := time.Duration(float64(state.delay) * easeFactor)
		if eased < state.floor {
			eased = state.floor
		}
		state.delay = eased
		state.bucket.SetLimit(rateFromDelay(state.delay))
		state.consecutiveGood = 0
	}
}

func (l *Limiter) onServerError(state *hostState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	state.consecutiveGood = 0
}

func (l *Limiter) onTooManyRequests(state *hostState, retryAfter *time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state.consecutiveGood = 0
	if !l.adaptive {
		return
	}
	if retryAfter != nil {
		state.delay = *retryAfter
	} else {
		state.delay *= 2
	}
	state.bucket.SetLimit(rateFromDelay(state.delay))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
