package tyx

import (
	"errors"
	"net/http"
)

var (
	// ErrBadRequest marks a token whose structure or signature cannot be verified.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized marks a structurally valid call that fails a trust check.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks a call whose declared permission does not admit the entry protocol.
	ErrForbidden = errors.New("forbidden")

	// ErrGateNotReady is returned when a nil or unbuilt Gate is used.
	ErrGateNotReady = errors.New("gate not initialized")
)

// ErrorKind classifies gate failures for transport mapping.
type ErrorKind uint8

const (
	KindBadRequest ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by every Gate entry point.
// It matches ErrBadRequest, ErrUnauthorized or ErrForbidden under errors.Is,
// and unwraps to the underlying cause when there is one.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Kind.String() + ": " + e.Message
	}
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Kind == KindBadRequest
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrForbidden:
		return e.Kind == KindForbidden
	}
	return false
}

// Status maps the kind onto an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(msg string, cause error) *Error {
	return &Error{Kind: KindBadRequest, Message: msg, Err: cause}
}

func unauthorized(msg string, cause error) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg, Err: cause}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// KindOf returns the ErrorKind carried by err, or 0 when err is not a gate error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
