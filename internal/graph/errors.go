package graph

import (
	"fmt"
	"time"
)

// RateLimitedError is returned when the API responds with 429.  RetryAfter
// carries the server-requested backoff duration.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// StatusCodeError is returned for any non-2xx response other than 429.  Body
// holds the response body, which on Graph contains the error detail.
type StatusCodeError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusCodeError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server responded with %s", e.Status)
	}
	return fmt.Sprintf("server responded with %s: %s", e.Status, e.Body)
}
