// Package apperr defines the error taxonomy surfaced at the service boundary.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the caller.
type Kind int

// Error kinds. The zero value is Internal so unclassified errors stay server-side.
const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a classified error with a human-readable message.
// Detail carries the upstream response body for KindUpstream.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports missing or malformed input or configuration.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Auth reports a bad or missing credential.
func Auth(msg string) error {
	return &Error{Kind: KindAuth, Message: msg}
}

// NotFound reports an unknown entity.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Upstream reports a failed call to an external service.
func Upstream(msg, detail string, err error) error {
	return &Error{Kind: KindUpstream, Message: msg, Detail: detail, Err: err}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the public message for err. The wrapped cause is never
// included; errors that are not an *Error get a generic message.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// Detail returns the upstream detail attached to err, if any.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
