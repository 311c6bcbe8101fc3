// internal/headers.go
// -------------------
// Defensive parsing of the rate-limit related response headers the Runway
// API emits. Everything here is optional input: a missing, empty, or
// malformed header never produces an error, only an absent value.
//
// Functions:
// - ParseRetryAfter: decode a Retry-After value (seconds, a Go-style
//   duration like "6m0s", or an HTTP-date) into a wait duration.
// - IntHeader: pull an integer header value, nil when absent or unparsable.
package internal

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseRetryAfter converts a Retry-After header value into a duration.
// Accepted forms, tried in order: integer seconds ("120"), a duration
// string ("1s", "6m0s"), an HTTP-date. Returns false when the value is
// empty or in none of those forms, and for waits that are not positive.
func ParseRetryAfter(v string) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}

	if sec, err := strconv.Atoi(v); err == nil {
		if sec <= 0 {
			return 0, false
		}
		return time.Duration(sec) * time.Second, true
	}

	if d, err := time.ParseDuration(v); err == nil {
		if d <= 0 {
			return 0, false
		}
		return d, true
	}

	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d <= 0 {
			return 0, false
		}
		return d, true
	}

	return 0, false
}

// IntHeader returns the integer value of a header, or nil when the header
// is absent or not an integer.
func IntHeader(h http.Header, key string) *int {
	v := strings.TrimSpace(h.Get(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
