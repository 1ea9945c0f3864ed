package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned by stores when no state exists for a
// session id. The chat service treats it as "start a fresh session".
var ErrSessionNotFound = errors.New("session not found")

// Kind classifies a failure so handlers and operators can tell a
// deployment defect from a transient upstream outage.
type Kind string

const (
	// KindValidation: malformed or missing input. Never retried,
	// never reaches an external service.
	KindValidation Kind = "validation"
	// KindConfiguration: missing or invalid credential/identifier.
	// Operator-fixable, not retryable by the caller.
	KindConfiguration Kind = "configuration"
	// KindUpstream: the external service rejected the call or
	// returned an error. Safe for the caller to retry.
	KindUpstream Kind = "upstream"
	// KindInternal: anything else. Non-retryable by default.
	KindInternal Kind = "internal"
)

// Error is the single error type crossing the app/handler boundary.
// Op names the failing operation, Msg is safe to show operators; the
// wrapped Err holds full detail for server-side logs only.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

func Configuration(op, msg string, err error) error {
	return &Error{Kind: KindConfiguration, Op: op, Msg: msg, Err: err}
}

func Upstream(op, msg string, err error) error {
	return &Error{Kind: KindUpstream, Op: op, Msg: msg, Err: err}
}

func Internal(op string, err error) error {
	return &Error{Kind: KindInternal, Op: op, Msg: "unexpected error", Err: err}
}

// KindOf extracts the classification of err; unclassified errors are
// treated conservatively as internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
