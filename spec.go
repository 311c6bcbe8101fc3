// spec.go
// -------
// The Runway API publishes its OpenAPI document at /openapi.json. The
// document is large and changes rarely, so it is cached on disk and only
// re-downloaded when the cached copy is older than 24 hours or the caller
// forces a refresh. Only the pieces the SDK consumes are modeled: the API
// version and the path -> operation map.
package runway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	specEndpoint = "/openapi.json"

	// DefaultSpecTTL is how long a cached document stays fresh.
	DefaultSpecTTL = 24 * time.Hour
)

// Document is the subset of the OpenAPI document the SDK consumes.
type Document struct {
	OpenAPI string `json:"openapi"`
	Info    struct {
		Title   string `json:"title"`
		Version string `json:"version"`
	} `json:"info"`
	Paths map[string]map[string]Operation `json:"paths"`
}

// Operation describes one method on one path.
type Operation struct {
	OperationID string `json:"operationId"`
	Summary     string `json:"summary"`
	Deprecated  bool   `json:"deprecated"`
}

// SpecCache downloads and caches the API's OpenAPI document.
type SpecCache struct {
	client *Client
	fs     afero.Fs
	path   string
	ttl    time.Duration
}

// SpecOption configures a SpecCache.
type SpecOption func(*SpecCache)

// WithSpecFs substitutes the filesystem the cache file lives on.
func WithSpecFs(fs afero.Fs) SpecOption {
	return func(s *SpecCache) { s.fs = fs }
}

// WithSpecPath overrides the cache file location.
func WithSpecPath(path string) SpecOption {
	return func(s *SpecCache) { s.path = path }
}

// WithSpecTTL overrides the freshness window.
func WithSpecTTL(ttl time.Duration) SpecOption {
	return func(s *SpecCache) { s.ttl = ttl }
}

// SpecCache returns a cache over this client's OpenAPI document, stored
// under the user cache directory by default.
func (c *Client) SpecCache(opts ...SpecOption) *SpecCache {
	s := &SpecCache{
		client: c,
		fs:     afero.NewOsFs(),
		ttl:    DefaultSpecTTL,
	}
	if dir, err := os.UserCacheDir(); err == nil {
		s.path = filepath.Join(dir, "runway", "openapi.json")
	} else {
		s.path = filepath.Join(os.TempDir(), "runway-openapi.json")
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the OpenAPI document, serving the cached copy while it is
// fresh. force skips the cache and always downloads.
func (s *SpecCache) Load(ctx context.Context, force bool) (*Document, error) {
	if !force {
		if raw, ok := s.readFresh(); ok {
			doc, err := decodeDocument(raw)
			if err == nil {
				return doc, nil
			}
			// A corrupt cache file falls through to a re-download.
		}
	}

	raw, err := s.download(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err == nil {
		_ = afero.WriteFile(s.fs, s.path, raw, 0o644)
	}
	return doc, nil
}

func (s *SpecCache) readFresh() ([]byte, bool) {
	info, err := s.fs.Stat(s.path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > s.ttl {
		return nil, false
	}
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (s *SpecCache) download(ctx context.Context) ([]byte, error) {
	req, err := s.client.NewRequest(ctx, http.MethodGet, specEndpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("runway: fetch OpenAPI document: HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func decodeDocument(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Body: raw, Err: err}
	}
	return &doc, nil
}
