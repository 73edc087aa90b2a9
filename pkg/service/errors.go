package service

import (
	"errors"
)

// Error kinds. Every error returned by a service is an *Error whose Kind is one
// of these, so callers branch with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateMobile    = errors.New("duplicate mobile")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrUnknownAccount     = errors.New("unknown account")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("not found")
	ErrMissingAddress     = errors.New("missing address")
	ErrUnsupportedPayment = errors.New("unsupported payment method")
	ErrEmptyCart          = errors.New("empty cart")
	ErrStore              = errors.New("store error")
)

type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func fail(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func storeError(op string, err error) error {
	return &Error{Kind: ErrStore, Message: "failed to " + op, Err: err}
}

// Message returns the user-facing text for err. Store failures are reported
// with a generic text so driver details never reach the client.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && !errors.Is(e.Kind, ErrStore) {
		return e.Message
	}
	return "Something went wrong. Please try again."
}
