// runs.go
// -------
// RunsService covers executions of a job: /v1/jobs/{id}/runs. Wait is the
// only long-lived operation in the SDK; it is plain interval polling with
// context cancellation, nothing more.
package runway

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// terminalRunStatuses are the states a run cannot leave.
var terminalRunStatuses = map[string]bool{
	"succeeded": true,
	"failed":    true,
	"killed":    true,
}

// RunsService issues requests against job runs.
type RunsService struct {
	client *Client
}

// Runs returns the runs service bound to this client.
func (c *Client) Runs() *RunsService {
	return &RunsService{client: c}
}

func runPath(jobID, runID string) string {
	return "/v1/jobs/" + url.PathEscape(jobID) + "/runs/" + url.PathEscape(runID)
}

// Get fetches one run.
func (s *RunsService) Get(ctx context.Context, jobID, runID string) (*Response, error) {
	return s.client.Call(ctx, http.MethodGet, runPath(jobID, runID), nil, nil)
}

// List lazily iterates the runs of a job.
func (s *RunsService) List(ctx context.Context, jobID string, query url.Values) *Paginator {
	return s.client.Paginate(ctx, "/v1/jobs/"+url.PathEscape(jobID)+"/runs", query)
}

// Logs fetches the log document of a run.
func (s *RunsService) Logs(ctx context.Context, jobID, runID string) (*Response, error) {
	return s.client.Call(ctx, http.MethodGet, runPath(jobID, runID)+"/logs", nil, nil)
}

// Wait polls a run until it reaches a terminal status or ctx is done, and
// returns the final run document. interval defaults to five seconds when
// not positive.
func (s *RunsService) Wait(ctx context.Context, jobID, runID string, interval time.Duration) (*Response, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		run, err := s.Get(ctx, jobID, runID)
		if err != nil {
			return nil, err
		}
		if run.StatusCode() >= 400 {
			return run, nil
		}
		if status, ok := run.GetDefault("status", "").(string); ok && terminalRunStatuses[status] {
			return run, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
