package network

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/rusq/teamsdump/internal/graph"
)

var testLimiter = rate.NewLimiter(rate.Inf, 1)

func instantWait(t *testing.T) {
	t.Helper()
	oldWait, oldNetWait := waitFn, netWaitFn
	waitFn = func(int) time.Duration { return 0 }
	netWaitFn = func(int) time.Duration { return 0 }
	t.Cleanup(func() {
		waitFn, netWaitFn = oldWait, oldNetWait
	})
}

func TestWithRetry(t *testing.T) {
	instantWait(t)

	t.Run("no error", func(t *testing.T) {
		calls := 0
		err := WithRetry(t.Context(), testLimiter, 3, func() error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
	t.Run("rate limiting does not consume attempts", func(t *testing.T) {
		// respond with 429 five times, which exceeds maxAttempts, then
		// succeed.  the callback must be retried until the server stops
		// asking to back off.
		calls := 0
		err := WithRetry(t.Context(), testLimiter, 2, func() error {
			calls++
			if calls <= 5 {
				return &graph.RateLimitedError{RetryAfter: time.Millisecond}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 6, calls)
	})
	t.Run("rate limit sleep honours the declared duration", func(t *testing.T) {
		const retryAfter = 50 * time.Millisecond
		calls := 0
		start := time.Now()
		err := WithRetry(t.Context(), testLimiter, 1, func() error {
			calls++
			if calls == 1 {
				return &graph.RateLimitedError{RetryAfter: retryAfter}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.GreaterOrEqual(t, time.Since(start), retryAfter)
	})
	t.Run("transient server error is retried", func(t *testing.T) {
		calls := 0
		err := WithRetry(t.Context(), testLimiter, 3, func() error {
			calls++
			if calls < 3 {
				return &graph.StatusCodeError{Code: http.StatusBadGateway, Status: "502 Bad Gateway"}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})
	t.Run("attempts exhausted", func(t *testing.T) {
		calls := 0
		err := WithRetry(t.Context(), testLimiter, 3, func() error {
			calls++
			return &graph.StatusCodeError{Code: http.StatusInternalServerError, Status: "500 Internal Server Error"}
		})
		assert.ErrorIs(t, err, ErrRetryFailed)
		assert.Equal(t, 3, calls)
	})
	t.Run("fatal error aborts immediately", func(t *testing.T) {
		fatal := &graph.StatusCodeError{Code: http.StatusNotFound, Status: "404 Not Found"}
		calls := 0
		err := WithRetry(t.Context(), testLimiter, 3, func() error {
			calls++
			return fatal
		})
		assert.ErrorIs(t, err, fatal)
		assert.Equal(t, 1, calls)
	})
	t.Run("cancelled context interrupts the backoff sleep", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		calls := 0
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		err := WithRetry(ctx, testLimiter, 1, func() error {
			calls++
			return &graph.RateLimitedError{RetryAfter: time.Hour}
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
	t.Run("other errors are not retried", func(t *testing.T) {
		boring := errors.New("a boring error")
		calls := 0
		err := WithRetry(t.Context(), testLimiter, 3, func() error {
			calls++
			return boring
		})
		assert.ErrorIs(t, err, boring)
		assert.Equal(t, 1, calls)
	})
}

func Test_isRecoverable(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusNotImplemented, false},
		{http.StatusRequestTimeout, true},
		{http.StatusNotFound, false},
		{http.StatusTooManyRequests, false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, isRecoverable(tt.code), "code=%d", tt.code)
	}
}

func Test_cubicWait(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 8 * time.Second},
		{1, 27 * time.Second},
		{2, 64 * time.Second},
		{5, maxAllowedWaitTime},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, cubicWait(tt.attempt), "attempt=%d", tt.attempt)
	}
}
