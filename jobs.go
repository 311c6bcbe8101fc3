// jobs.go
// -------
// JobsService covers the /v1/jobs resource: job definitions that the
// platform schedules into runs.
package runway

import (
	"context"
	"net/http"
	"net/url"
)

// JobsService issues requests against the jobs resource.
type JobsService struct {
	client *Client
}

// Jobs returns the jobs service bound to this client.
func (c *Client) Jobs() *JobsService {
	return &JobsService{client: c}
}

// Create registers a new job from a definition object.
func (s *JobsService) Create(ctx context.Context, definition map[string]any) (*Response, error) {
	return s.client.Call(ctx, http.MethodPost, "/v1/jobs", nil, definition)
}

// Get fetches one job by id.
func (s *JobsService) Get(ctx context.Context, id string) (*Response, error) {
	return s.client.Call(ctx, http.MethodGet, "/v1/jobs/"+url.PathEscape(id), nil, nil)
}

// Delete removes a job.
func (s *JobsService) Delete(ctx context.Context, id string) (*Response, error) {
	return s.client.Call(ctx, http.MethodDelete, "/v1/jobs/"+url.PathEscape(id), nil, nil)
}

// List lazily iterates all jobs matching the query.
func (s *JobsService) List(ctx context.Context, query url.Values) *Paginator {
	return s.client.Paginate(ctx, "/v1/jobs", query)
}
