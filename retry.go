// retry.go
// --------
// retryRequest resends transiently-failing requests within the bounds of a
// RetryConfig. Policy summary:
//
// - Connection-level errors from the session are never retried; they come
//   back immediately as a *TransportError. Resending during an outage only
//   amplifies load.
// - Idempotent verbs retry on RetryStatuses; POST retries only on
//   PostRetryStatuses. Any other status is returned as-is for the caller
//   to inspect, 2xx or not.
// - A Retry-After header on the failed response is honored exactly;
//   otherwise the wait comes from an exponential schedule with jitter,
//   capped at BackoffCeiling.
// - The loop stops at MaxCalls attempts or when the next wait would push
//   past MaxElapsed, whichever comes first, and returns the last response.
//
// All retry state is local to one invocation. The shared RetryConfig is
// read, never wrapped or mutated, so a client can funnel any number of
// sequential or concurrent calls through the same config.
package runway

import (
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/runwayhq/runway-go/internal"
)

// Session sends a prepared request over some transport. *http.Client
// satisfies it; tests substitute scripted implementations.
type Session interface {
	Do(req *http.Request) (*http.Response, error)
}

func retryRequest(req *http.Request, session Session, config *RetryConfig, logger hclog.Logger) (*http.Response, error) {
	start := time.Now()

	// A fresh schedule per invocation. Sharing one across calls would
	// carry wait state between unrelated requests.
	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = config.BackoffBase
	schedule.MaxInterval = config.BackoffCeiling
	schedule.MaxElapsedTime = 0 // the elapsed bound is enforced below

	for attempt := 1; ; attempt++ {
		attemptReq, err := cloneRequest(req)
		if err != nil {
			return nil, err
		}

		resp, err := session.Do(attemptReq)
		if err != nil {
			return nil, &TransportError{Err: err}
		}

		if !config.retryable(req.Method, resp.StatusCode) {
			return resp, nil
		}
		if attempt >= config.MaxCalls {
			logger.Debug("retries exhausted, returning last response",
				"method", req.Method, "url", req.URL.String(),
				"status", resp.StatusCode, "attempts", attempt)
			return resp, nil
		}

		wait := schedule.NextBackOff()
		if ra, ok := internal.ParseRetryAfter(resp.Header.Get("Retry-After")); ok {
			wait = ra
		}
		if config.MaxElapsed > 0 && time.Since(start)+wait > config.MaxElapsed {
			logger.Debug("elapsed ceiling reached, returning last response",
				"method", req.Method, "url", req.URL.String(),
				"status", resp.StatusCode, "attempts", attempt)
			return resp, nil
		}

		drain(resp)
		logger.Debug("retrying request",
			"method", req.Method, "url", req.URL.String(),
			"status", resp.StatusCode, "attempt", attempt, "wait", wait)
		time.Sleep(wait)
	}
}

// cloneRequest produces a sendable copy of the prepared request. Bodies are
// replayed through GetBody, which net/http populates for the common body
// sources.
func cloneRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

// drain discards and closes the body of a response we are about to replace,
// so the transport can reuse the connection.
func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
