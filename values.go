// values.go
// ---------
// ValuesService covers JSON value resources: named slots of caller-defined
// JSON under /v1/values. The "value" field is opaque user data, so
// responses here are built with the JSON-value unwrap flag and expose it
// as plain nested structures.
package runway

import (
	"context"
	"net/http"
	"net/url"
)

// ValuesService issues requests against JSON value resources.
type ValuesService struct {
	client *Client
}

// Values returns the JSON values service bound to this client.
func (c *Client) Values() *ValuesService {
	return &ValuesService{client: c}
}

// Get fetches a JSON value by name.
func (s *ValuesService) Get(ctx context.Context, name string) (*Response, error) {
	return s.client.Call(ctx, http.MethodGet, "/v1/values/"+url.PathEscape(name), nil, nil, WithJSONValue())
}

// Set stores caller-defined JSON under a name.
func (s *ValuesService) Set(ctx context.Context, name string, value any) (*Response, error) {
	body := map[string]any{"value": value}
	return s.client.Call(ctx, http.MethodPut, "/v1/values/"+url.PathEscape(name), nil, body, WithJSONValue())
}

// Delete removes a JSON value.
func (s *ValuesService) Delete(ctx context.Context, name string) (*Response, error) {
	return s.client.Call(ctx, http.MethodDelete, "/v1/values/"+url.PathEscape(name), nil, nil)
}

// List lazily iterates all JSON values. Elements carry the JSONValue
// objectType marker, so their value fields stay unwrapped.
func (s *ValuesService) List(ctx context.Context) *Paginator {
	return s.client.Paginate(ctx, "/v1/values", nil)
}
