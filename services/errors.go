package services

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindInvalidIdentity
	KindForbidden
	KindNotFound
	KindConflict
	KindEmptyCart
)

// Error is a failure the caller can act on. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// works whatever the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidInput    = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrInvalidIdentity = &Error{Kind: KindInvalidIdentity, Message: "Invalid user ID in token"}
	ErrForbidden       = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict        = &Error{Kind: KindConflict, Message: "conflict"}
	ErrEmptyCart       = &Error{Kind: KindEmptyCart, Message: "Cart is empty"}
)

func newError(kind Kind, msg string) error { return &Error{Kind: kind, Message: msg} }

func invalidInput(msg string) error { return newError(KindInvalidInput, msg) }
func notFound(msg string) error     { return newError(KindNotFound, msg) }
func conflict(msg string) error     { return newError(KindConflict, msg) }
func forbidden(msg string) error    { return newError(KindForbidden, msg) }

// HTTPStatus maps an error to its response status. Anything that is not an
// *Error is a 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindInvalidInput, KindConflict, KindEmptyCart:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidIdentity:
		return http.StatusUnprocessableEntity
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
