// pagination.go
// -------------
// Paginator walks a list endpoint one page at a time, scanner-style:
//
//	p := client.Paginate(ctx, "/v1/jobs", nil)
//	for p.Next() {
//		job := p.Item().(*runway.Response)
//		...
//	}
//	if err := p.Err(); err != nil { ... }
//
// No request is issued until the first Next call. Pages are numbered from
// 1; each exhausted page triggers exactly one fetch for the next number,
// and an empty page ends the walk. A Paginator is forward-only and is
// discarded after exhaustion.
package runway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Paginator iterates over the elements of a paginated list endpoint. Each
// element passes through the usual response normalization: JSON objects
// arrive as *Response, anything else as the decoded value.
type Paginator struct {
	client *Client
	ctx    context.Context
	path   string
	query  url.Values

	page    int
	items   []any
	current any
	err     error
	done    bool
}

// Paginate prepares a lazy iterator over a list endpoint. Any
// caller-supplied page or limit parameter is stripped from the copied
// query; the paginator drives the page counter itself.
func (c *Client) Paginate(ctx context.Context, path string, query url.Values) *Paginator {
	q := url.Values{}
	for k, vs := range query {
		if k == "page" || k == "limit" {
			continue
		}
		q[k] = append([]string(nil), vs...)
	}
	return &Paginator{client: c, ctx: ctx, path: path, query: q}
}

// Next advances to the next element, fetching further pages as needed. It
// returns false when the sequence is exhausted or a fetch failed; Err
// distinguishes the two.
func (p *Paginator) Next() bool {
	if p.err != nil {
		return false
	}
	for len(p.items) == 0 {
		if p.done {
			return false
		}
		p.fetch()
		if p.err != nil {
			return false
		}
	}
	p.current = p.items[0]
	p.items = p.items[1:]
	return true
}

// Item returns the element produced by the last successful Next call.
func (p *Paginator) Item() any { return p.current }

// Err returns the error that stopped iteration, if any.
func (p *Paginator) Err() error { return p.err }

func (p *Paginator) fetch() {
	p.page++
	q := url.Values{}
	for k, vs := range p.query {
		q[k] = vs
	}
	q.Set("page", strconv.Itoa(p.page))

	resp, err := p.client.Call(p.ctx, http.MethodGet, p.path, q, nil)
	if err != nil {
		p.err = err
		return
	}
	if resp.StatusCode() >= 400 {
		p.err = fmt.Errorf("runway: list %s page %d: HTTP %d", p.path, p.page, resp.StatusCode())
		return
	}

	var items []any
	switch {
	case resp.IsList():
		items = resp.Items()
	default:
		// Some endpoints wrap the page in an envelope object.
		if v, ok := resp.Lookup("items"); ok {
			if page, ok := v.([]any); ok {
				items = page
				break
			}
		}
		p.err = fmt.Errorf("runway: list %s page %d: response is not a page", p.path, p.page)
		return
	}

	if len(items) == 0 {
		p.done = true
		return
	}
	p.items = items
}
