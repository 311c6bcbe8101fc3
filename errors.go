// errors.go
// ---------
// Error types surfaced by the client. The split mirrors how callers are
// expected to react:
//
// - Transport failures propagate as wrapped errors from Do/Call.
// - Non-2xx API answers are NOT errors; they come back as a Response whose
//   StatusCode the caller inspects.
// - Malformed JSON on an otherwise successful response is a *ParseError.
// - Mutating a Response fails with ErrImmutable.
// - Missing fields raise *FieldError or *KeyError depending on which
//   accessor was used.
package runway

import (
	"errors"
	"fmt"
)

// ErrImmutable is returned by every mutating method on Response.
var ErrImmutable = errors.New("runway: response is read-only; call AsMap for a mutable copy")

// FieldError reports a miss from Response.Field.
type FieldError struct {
	Name string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("runway: response has no field %q", e.Name)
}

// KeyError reports a miss from Response.Index.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("runway: response has no key %q", e.Key)
}

// TypeError reports a Response comparison against an unsupported type.
type TypeError struct {
	Value any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("runway: cannot compare response with %T", e.Value)
}

// ParseError reports a response body that was not valid JSON. A zero-length
// body is never a ParseError; it decodes to an empty Response.
type ParseError struct {
	Body []byte
	Err  error
}

func (e *ParseError) Error() string {
	body := string(e.Body)
	if len(body) > 120 {
		body = body[:120] + "..."
	}
	return fmt.Sprintf("runway: malformed JSON body %q: %v", body, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TransportError wraps a connection-level failure from the underlying
// session. These are never retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("runway: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
