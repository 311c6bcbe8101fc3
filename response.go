// response.go
// -----------
// Response is an immutable, case-normalized view over a JSON document
// returned by the Runway API. Every key is reachable under both its
// original casing and its snake_case projection, nested objects become
// nested Responses, and list elements are wrapped individually. The two
// key maps are built once at construction; there is no dynamic
// interception on access.
//
// Two subtrees are exempt from case folding: the children of "arguments"
// and "environmentVariables" hold user-defined environment variable names
// (MY_VAR, PATH, ...) that must round-trip verbatim. The exemption applies
// to everything below an exempt key.
//
// A Response never changes after construction. Set and SetField exist only
// to fail with ErrImmutable; AsMap exports a fresh mutable copy.
package runway

import (
	"net/http"
	"reflect"
	"sort"

	"github.com/iancoleman/strcase"

	"github.com/runwayhq/runway-go/internal"
)

// caseExemptKeys name the objects whose child keys are stored verbatim.
var caseExemptKeys = map[string]bool{
	"arguments":            true,
	"environmentVariables": true,
}

// jsonValueMarker is the objectType under which the API wraps opaque
// caller-defined data in a "value" field.
const jsonValueMarker = "JSONValue"

// Response wraps a decoded JSON object (or array) from the API.
type Response struct {
	snake map[string]any
	orig  map[string]any

	// list-mode fields, set when the document was a JSON array. Object
	// elements are wrapped as *Response, everything else passes through.
	items  []any
	isList bool

	statusCode         int
	rateLimitRemaining *int
	rateLimitLimit     *int
}

// ResponseOption adjusts how a Response is built.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	jsonValue  bool
	statusCode int
}

// WithJSONValue marks the document as a JSON-value resource: its "value"
// field is exposed as plain nested structures rather than wrapped, since
// its shape is caller-defined and opaque to the client. The same treatment
// is applied automatically when the document carries an objectType of
// "JSONValue".
func WithJSONValue() ResponseOption {
	return func(o *responseOptions) { o.jsonValue = true }
}

func withStatusCode(code int) ResponseOption {
	return func(o *responseOptions) { o.statusCode = code }
}

// NewResponse builds an immutable view over decoded JSON data. data may be
// a map[string]any, a []any, or nil (an empty response). headers, when
// present, contribute the optional rate-limit fields.
func NewResponse(data any, headers http.Header, opts ...ResponseOption) *Response {
	var o responseOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := &Response{
		snake:      map[string]any{},
		orig:       map[string]any{},
		statusCode: o.statusCode,
	}
	if headers != nil {
		r.rateLimitRemaining = internal.IntHeader(headers, "X-RateLimit-Remaining")
		r.rateLimitLimit = internal.IntHeader(headers, "X-RateLimit-Limit")
	}

	switch v := data.(type) {
	case nil:
	case map[string]any:
		r.populate(v, false, o.jsonValue || isJSONValue(v))
	case []any:
		r.isList = true
		r.items = wrapList(v, false)
	}
	return r
}

func isJSONValue(m map[string]any) bool {
	ot, _ := m["objectType"].(string)
	return ot == jsonValueMarker
}

// populate fills both key maps from m. preserve means the keys of this map
// are stored verbatim (we are inside a case-exempt subtree). unwrapValue
// leaves the "value" field as plain data.
func (r *Response) populate(m map[string]any, preserve, unwrapValue bool) {
	for k, v := range m {
		var wrapped any
		if unwrapValue && k == "value" {
			wrapped = v
		} else {
			wrapped = wrapValue(v, preserve || caseExemptKeys[k])
		}
		r.orig[k] = wrapped
		key := k
		if !preserve {
			key = strcase.ToSnake(k)
		}
		r.snake[key] = wrapped
	}
}

// wrapValue applies the normalization typing rule: objects become nested
// Responses, lists wrap their object elements individually, everything
// else passes through untouched.
func wrapValue(v any, preserve bool) any {
	switch t := v.(type) {
	case map[string]any:
		sub := &Response{snake: map[string]any{}, orig: map[string]any{}}
		sub.populate(t, preserve, isJSONValue(t))
		return sub
	case []any:
		return wrapList(t, preserve)
	default:
		return v
	}
}

func wrapList(items []any, preserve bool) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = wrapValue(item, preserve)
	}
	return out
}

// Lookup returns the value for key, consulting the snake_case projection
// first and the original casing second.
func (r *Response) Lookup(key string) (any, bool) {
	if v, ok := r.snake[key]; ok {
		return v, true
	}
	v, ok := r.orig[key]
	return v, ok
}

// Field returns the value for name, or a *FieldError when it is absent.
func (r *Response) Field(name string) (any, error) {
	if v, ok := r.Lookup(name); ok {
		return v, nil
	}
	return nil, &FieldError{Name: name}
}

// Index returns the value for key, or a *KeyError when it is absent.
func (r *Response) Index(key string) (any, error) {
	if v, ok := r.Lookup(key); ok {
		return v, nil
	}
	return nil, &KeyError{Key: key}
}

// GetDefault returns the value for key, or def when it is absent.
func (r *Response) GetDefault(key string, def any) any {
	if v, ok := r.Lookup(key); ok {
		return v
	}
	return def
}

// Keys returns the snake_case projection keys in sorted order.
func (r *Response) Keys() []string {
	keys := make([]string, 0, len(r.snake))
	for k := range r.snake {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len is the number of keys, or the number of elements in list mode.
func (r *Response) Len() int {
	if r.isList {
		return len(r.items)
	}
	return len(r.snake)
}

// IsList reports whether the document was a JSON array.
func (r *Response) IsList() bool { return r.isList }

// Items returns the elements of a list-mode response. Object elements are
// *Response values; anything else is the decoded JSON as-is.
func (r *Response) Items() []any {
	out := make([]any, len(r.items))
	copy(out, r.items)
	return out
}

// Set always fails: a Response is read-only after construction.
func (r *Response) Set(key string, value any) error { return ErrImmutable }

// SetField always fails: a Response is read-only after construction.
func (r *Response) SetField(name string, value any) error { return ErrImmutable }

// StatusCode is the HTTP status of the call that produced this response,
// zero when the Response was built directly from data.
func (r *Response) StatusCode() int { return r.statusCode }

// RateLimitRemaining reports the X-RateLimit-Remaining header value, when
// one was present.
func (r *Response) RateLimitRemaining() (int, bool) {
	if r.rateLimitRemaining == nil {
		return 0, false
	}
	return *r.rateLimitRemaining, true
}

// RateLimitLimit reports the X-RateLimit-Limit header value, when one was
// present.
func (r *Response) RateLimitLimit() (int, bool) {
	if r.rateLimitLimit == nil {
		return 0, false
	}
	return *r.rateLimitLimit, true
}

// AsMap exports the document as a plain nested map, keyed by the
// snake_case projection or the original casing. The result is a fresh
// structure on every call; mutating it never touches the Response or a
// previous export.
func (r *Response) AsMap(snake bool) map[string]any {
	src := r.orig
	if snake {
		src = r.snake
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = exportValue(v, snake)
	}
	return out
}

// AsSlice exports a list-mode response as a plain slice.
func (r *Response) AsSlice(snake bool) []any {
	out := make([]any, len(r.items))
	for i, v := range r.items {
		out[i] = exportValue(v, snake)
	}
	return out
}

func exportValue(v any, snake bool) any {
	switch t := v.(type) {
	case *Response:
		if t.isList {
			return t.AsSlice(snake)
		}
		return t.AsMap(snake)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = exportValue(e, snake)
		}
		return out
	case map[string]any:
		// Unwrapped JSON-value data; copied so the export stays
		// independent of internal state.
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = exportValue(e, snake)
		}
		return out
	default:
		return v
	}
}

// Equal compares the snake_case projection against another Response or a
// plain map. Comparing against any other type is a *TypeError, not a
// silent false.
func (r *Response) Equal(other any) (bool, error) {
	switch v := other.(type) {
	case *Response:
		if r.isList != v.isList {
			return false, nil
		}
		if r.isList {
			return reflect.DeepEqual(r.AsSlice(true), v.AsSlice(true)), nil
		}
		return reflect.DeepEqual(r.AsMap(true), v.AsMap(true)), nil
	case map[string]any:
		if r.isList {
			return false, nil
		}
		return reflect.DeepEqual(r.AsMap(true), v), nil
	default:
		return false, &TypeError{Value: other}
	}
}
