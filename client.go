// client.go
// ---------
// Client is the entry point of the SDK. It owns the transport session, the
// credentials, and the shared retry configuration, and turns raw HTTP
// exchanges into normalized Response values.
//
// Key functionality:
// - Construction via functional options, with environment fallbacks for
//   the API key and endpoint override.
// - Request preparation: composed User-Agent, bearer credentials, job/run
//   correlation headers when running inside the Runway execution
//   environment, and name[] encoding for array query parameters.
// - Do/Call, which funnel every request through the retry policy and keep
//   the rate-limit tracker current.
//
// The client is safe for concurrent use: each call owns its own request
// and response objects, and the lazily-built retry configuration is
// guarded by a mutex.
package runway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

const (
	// DefaultEndpoint is the public Runway API base URL.
	DefaultEndpoint = "https://api.runway.dev"

	// Environment variables consumed at construction time.
	EnvAPIKey   = "RUNWAY_API_KEY"
	EnvEndpoint = "RUNWAY_API_ENDPOINT"
	EnvJobID    = "RUNWAY_JOB_ID"
	EnvRunID    = "RUNWAY_RUN_ID"

	// Correlation headers injected when the library runs inside a Runway
	// job execution environment.
	HeaderJobID = "X-Runway-Job-Id"
	HeaderRunID = "X-Runway-Run-Id"
)

// Client talks to the Runway API.
type Client struct {
	baseURL         string
	apiKey          string
	tokenSource     oauth2.TokenSource
	session         Session
	logger          hclog.Logger
	userAgentPrefix string
	jobID           string
	runID           string

	retryMu sync.Mutex
	retry   *RetryConfig

	rateLimits rateLimitTracker
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(endpoint, "/") }
}

// WithAPIKey sets the API key credential.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTokenSource authenticates with bearer tokens from an oauth2 token
// source instead of a static API key.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokenSource = ts }
}

// WithHTTPClient substitutes the transport session. Anything satisfying
// Session works; *http.Client is the usual choice.
func WithHTTPClient(session Session) Option {
	return func(c *Client) { c.session = session }
}

// WithLogger sets the logger. Retry decisions are logged at Debug.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUserAgentPrefix prepends an application identifier to the composed
// User-Agent header.
func WithUserAgentPrefix(prefix string) Option {
	return func(c *Client) { c.userAgentPrefix = prefix }
}

// WithRetryConfig replaces the default retry policy.
func WithRetryConfig(cfg *RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// NewClient builds a Client. The API key falls back to RUNWAY_API_KEY and
// the endpoint to RUNWAY_API_ENDPOINT; construction fails when no
// credential is available at all.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultEndpoint,
		session: &http.Client{},
		logger:  hclog.NewNullLogger(),
		jobID:   os.Getenv(EnvJobID),
		runID:   os.Getenv(EnvRunID),
	}
	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		c.baseURL = strings.TrimRight(endpoint, "/")
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv(EnvAPIKey)
	}
	if c.apiKey == "" && c.tokenSource == nil {
		return nil, fmt.Errorf("runway: no credentials: set %s or pass WithAPIKey/WithTokenSource", EnvAPIKey)
	}

	return c, nil
}

// retryConfig returns the shared retry configuration, building the default
// one on first use.
func (c *Client) retryConfig() *RetryConfig {
	c.retryMu.Lock()
	defer c.retryMu.Unlock()
	if c.retry == nil {
		c.retry = DefaultRetryConfig()
	}
	return c.retry
}

// RateLimitInfo returns the most recently observed rate-limit headers, or
// nil before any response carried them.
func (c *Client) RateLimitInfo() *RateLimitInfo {
	return c.rateLimits.info()
}

// NewRequest prepares an API request: URL assembly, query encoding, JSON
// body, credentials, correlation headers, and the composed User-Agent.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		u.RawQuery = encodeQuery(query)
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), u.String(), reqBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := c.apiKey
	if c.tokenSource != nil {
		t, err := c.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("runway: token source: %w", err)
		}
		token = t.AccessToken
	}
	req.Header.Set("Authorization", "Bearer "+token)

	if c.jobID != "" {
		req.Header.Set(HeaderJobID, c.jobID)
	}
	if c.runID != "" {
		req.Header.Set(HeaderRunID, c.runID)
	}
	req.Header.Set("User-Agent", c.userAgent(req.Header.Get("User-Agent")))

	return req, nil
}

// userAgent composes prefix, interpreter version, library version, and any
// preexisting session value, in that order.
func (c *Client) userAgent(existing string) string {
	parts := make([]string, 0, 4)
	if c.userAgentPrefix != "" {
		parts = append(parts, c.userAgentPrefix)
	}
	parts = append(parts, runtime.Version(), "runway-go/"+Version)
	if existing != "" {
		parts = append(parts, existing)
	}
	return strings.Join(parts, " ")
}

// Do sends a prepared request through the retry policy and records any
// rate-limit headers from the answer. Transport failures propagate;
// HTTP-level failures come back as the (non-2xx) response.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := retryRequest(req, c.session, c.retryConfig(), c.logger)
	if err != nil {
		return nil, err
	}
	c.rateLimits.update(resp.Header)
	return resp, nil
}

// Call issues an API request and wraps the decoded JSON body as a
// Response. A zero-length body is a valid empty result; anything else that
// fails to decode is a *ParseError. Non-2xx answers are not errors: the
// caller inspects Response.StatusCode.
func (c *Client) Call(ctx context.Context, method, path string, query url.Values, body any, opts ...ResponseOption) (*Response, error) {
	req, err := c.NewRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	opts = append(opts, withStatusCode(resp.StatusCode))
	if len(raw) == 0 {
		return NewResponse(nil, resp.Header, opts...), nil
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &ParseError{Body: raw, Err: err}
	}
	return NewResponse(data, resp.Header, opts...), nil
}

// encodeQuery produces a deterministic query string. Multi-valued
// parameters use the name[] convention the API expects instead of repeated
// bare keys.
func encodeQuery(query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		values := query[k]
		name := url.QueryEscape(k)
		if len(values) > 1 {
			name += "%5B%5D" // "[]"
		}
		for _, v := range values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
