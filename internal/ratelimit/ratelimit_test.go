package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/ronpik/website-fetch/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_TooManyRequestsWithRetryAfterSetsDelay(t *testing.T) {
	limiter := ratelimit.New(100*time.Millisecond, 3, true, 1)

	retryAfter := 2 * time.Second
	calls := 0
	start := time.Now()

	_, err := limiter.Submit(context.Background(), "example.com", func(ctx context.Context) (ratelimit.Attempt, error) {
		calls++
		return ratelimit.Attempt{StatusCode: 429, RetryAfter: &retryAfter}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "429 must not be retried by the limiter itself")

	// A second submission must now sleep at least the Retry-After value.
	secondCalls := 0
	_, err = limiter.Submit(context.Background(), "example.com", func(ctx context.Context) (ratelimit.Attempt, error) {
		secondCalls++
		return ratelimit.Attempt{StatusCode: 200}, nil
	})
	require.NoError(t, err)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, retryAfter)
}

func TestSubmit_ServerErrorRetriesWithBackoff(t *testing.T) {
	limiter := ratelimit.New(10*time.Millisecond, 2, true, 1)

	attempts := 0
	attempt, err := limiter.Submit(context.Background(), "example.com", func(ctx context.Context) (ratelimit.Attempt, error) {
		attempts++
		if attempts < 3 {
			return ratelimit.Attempt{StatusCode: 503}, nil
		}
		return ratelimit.Attempt{StatusCode: 200}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, attempt.StatusCode)
	assert.Equal(t, 3, attempts)
}

func TestSubmit_NonRetryableErrorPropagatesImmediately(t *testing.T) {
	limiter := ratelimit.New(time.Millisecond, 3, true, 1)

	attempts := 0
	_, err := limiter.Submit(context.Background(), "example.com", func(ctx context.Context) (ratelimit.Attempt, error) {
		attempts++
		return ratelimit.Attempt{StatusCode: 404}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestSetCrawlDelayFloor_RaisesDelay(t *testing.T) {
	limiter := ratelimit.New(10*time.Millisecond, 1, true, 1)
	limiter.SetCrawlDelayFloor("example.com", 50*time.Millisecond)

	start := time.Now()
	_, err := limiter.Submit(context.Background(), "example.com", func(ctx context.Context) (ratelimit.Attempt, error) {
		return ratelimit.Attempt{StatusCode: 200}, nil
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
