// config.go
// ---------
// RetryConfig describes the bounded retry policy applied to every request.
// One RetryConfig is built per client and shared across all of that client's
// calls; it is plain data and is never mutated by the retry loop, so a single
// instance is safe for concurrent use. All per-call state (attempt counter,
// backoff schedule, elapsed clock) lives inside retryRequest.
package runway

import (
	"net/http"
	"strings"
	"time"
)

// RetryConfig bounds the retry loop and classifies which failures are worth
// resending. Idempotent verbs and POST use separate status sets: retrying a
// non-idempotent write is only safe for codes the server documents as
// not-yet-processed (explicit rate limiting, overload shedding).
type RetryConfig struct {
	// MaxCalls is the total number of attempts, including the first send.
	MaxCalls int

	// MaxElapsed caps the total time spent inside one retryRequest
	// invocation, backoff sleeps included. Whichever of MaxCalls and
	// MaxElapsed trips first ends the loop.
	MaxElapsed time.Duration

	// IdempotentMethods are the verbs eligible for retry on any status in
	// RetryStatuses.
	IdempotentMethods map[string]bool

	// RetryStatuses trigger a retry for idempotent verbs.
	RetryStatuses map[int]bool

	// PostRetryStatuses trigger a retry for POST. Typically a strict
	// subset of RetryStatuses.
	PostRetryStatuses map[int]bool

	// BackoffBase and BackoffCeiling shape the exponential backoff used
	// when the server does not supply a Retry-After header.
	BackoffBase    time.Duration
	BackoffCeiling time.Duration
}

// DefaultRetryConfig returns the policy used when a client is built without
// an explicit one.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxCalls:   5,
		MaxElapsed: 10 * time.Minute,
		IdempotentMethods: map[string]bool{
			http.MethodHead:    true,
			http.MethodGet:     true,
			http.MethodPut:     true,
			http.MethodOptions: true,
			http.MethodDelete:  true,
			http.MethodTrace:   true,
		},
		RetryStatuses: map[int]bool{
			http.StatusTooManyRequests:     true,
			http.StatusInternalServerError: true,
			http.StatusBadGateway:          true,
			http.StatusServiceUnavailable:  true,
			http.StatusGatewayTimeout:      true,
		},
		PostRetryStatuses: map[int]bool{
			http.StatusTooManyRequests:    true,
			http.StatusServiceUnavailable: true,
		},
		BackoffBase:    500 * time.Millisecond,
		BackoffCeiling: 30 * time.Second,
	}
}

// retryable reports whether a response status warrants another attempt for
// the given verb. The verb is matched case-insensitively.
func (c *RetryConfig) retryable(method string, status int) bool {
	method = strings.ToUpper(method)
	if c.IdempotentMethods[method] {
		return c.RetryStatuses[status]
	}
	if method == http.MethodPost {
		return c.PostRetryStatuses[status]
	}
	return false
}
