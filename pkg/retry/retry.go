// Package retry runs a fallible operation with bounded, jittered
// exponential backoff, deferring to the operation's own error
// classification to decide whether a given failure is worth retrying.
package retry

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ronpik/website-fetch/pkg/failure"
	"github.com/ronpik/website-fetch/pkg/timeutil"
)

// Param holds the parameters for a retry loop. RandomSeed is explicit
// (rather than reading the global RNG) so retry timing is reproducible
// in tests.
type Param struct {
	Jitter       time.Duration
	RandomSeed   int64
	MaxAttempts  int
	BackoffParam timeutil.BackoffParam
}

func NewParam(jitter time.Duration, randomSeed int64, maxAttempts int, backoff timeutil.BackoffParam) Param {
	return Param{
		Jitter:       jitter,
		RandomSeed:   randomSeed,
		MaxAttempts:  maxAttempts,
		BackoffParam: backoff,
	}
}

// Retryable is implemented by errors that know whether a retry is worth
// attempting (e.g. a 5xx is, a 4xx other than 429 is not).
type Retryable interface {
	IsRetryable() bool
}

// Do executes fn up to param.MaxAttempts times. It stops early when fn
// succeeds or returns a non-retryable error. Each retry sleeps for an
// exponentially increasing, jittered delay.
func Do[T any](param Param, fn func() (T, failure.ClassifiedError)) (T, failure.ClassifiedError) {
	var zero T
	var lastErr failure.ClassifiedError

	if param.MaxAttempts < 1 {
		return zero, &Error{Message: "max attempts must be >= 1", Cause: ErrCauseZeroAttempts, Retryable: false}
	}

	rng := rand.New(rand.NewSource(param.RandomSeed))

	for attempt := 1; attempt <= param.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if r, ok := err.(Retryable); ok && !r.IsRetryable() {
			return zero, err
		}

		if attempt == param.MaxAttempts {
			break
		}

		delay := timeutil.ExponentialBackoffDelay(attempt, param.Jitter, *rng, param.BackoffParam)
		time.Sleep(delay)
	}

	return zero, &Error{
		Message:   fmt.Sprintf("exhausted %d attempts: %v", param.MaxAttempts, lastErr),
		Cause:     ErrCauseExhausted,
		Retryable: false,
	}
}
