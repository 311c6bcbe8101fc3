// ratelimit.go
// ------------
// The client keeps the most recently observed rate-limit headers so callers
// can throttle themselves ahead of a 429. The tracker only records what the
// server volunteered; absent headers leave the previous observation in
// place.
package runway

import (
	"net/http"
	"sync"
	"time"

	"github.com/runwayhq/runway-go/internal"
)

// RateLimitInfo is the last rate-limit state reported by the API. Remaining
// and Limit are nil when the server never sent the corresponding header.
type RateLimitInfo struct {
	Remaining  *int
	Limit      *int
	ObservedAt time.Time
}

type rateLimitTracker struct {
	mu   sync.Mutex
	last *RateLimitInfo
}

func (t *rateLimitTracker) update(h http.Header) {
	remaining := internal.IntHeader(h, "X-RateLimit-Remaining")
	limit := internal.IntHeader(h, "X-RateLimit-Limit")
	if remaining == nil && limit == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = &RateLimitInfo{
		Remaining:  remaining,
		Limit:      limit,
		ObservedAt: time.Now(),
	}
}

// info returns a copy of the last observation, or nil before any response
// carried rate-limit headers.
func (t *rateLimitTracker) info() *RateLimitInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return nil
	}
	copyInfo := *t.last
	return &copyInfo
}
