// mock/mock_session.go
// --------------------
// A scripted transport session for exercising retry and pagination
// behavior without a network. Each Do consumes the next Reply in the
// script; the final Reply repeats once the script runs out, which makes
// "always failing" servers one line to express.
package mock

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// Reply is one scripted exchange. A non-nil Err simulates a
// connection-level failure instead of producing a response.
type Reply struct {
	Status  int
	Headers map[string]string
	Body    string
	Err     error
}

// Session implements runway.Session against a fixed script. The zero value
// answers every request with 200 and an empty body.
type Session struct {
	Script []Reply

	mu       sync.Mutex
	requests []*http.Request
}

func (s *Session) Do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	idx := len(s.requests) - 1
	s.mu.Unlock()

	if len(s.Script) == 0 {
		return makeResponse(req, Reply{Status: http.StatusOK}), nil
	}
	if idx >= len(s.Script) {
		idx = len(s.Script) - 1
	}
	reply := s.Script[idx]
	if reply.Err != nil {
		return nil, reply.Err
	}
	return makeResponse(req, reply), nil
}

// Calls reports how many requests the session has received.
func (s *Session) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns the received requests in order.
func (s *Session) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*http.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func makeResponse(req *http.Request, reply Reply) *http.Response {
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	header := http.Header{}
	for k, v := range reply.Headers {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(reply.Body)),
		Request:    req,
	}
}
