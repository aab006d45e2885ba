package payments

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures so handlers can map them to responses
// without inspecting message text.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindInvalidState    Kind = "invalid_state"
	KindAlreadyReleased Kind = "already_released"
	KindGateway         Kind = "gateway"
	KindConfiguration   Kind = "configuration"
)

// Error is a classified engine failure. Message is safe to show to callers;
// Err keeps the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func validationError(message string) *Error {
	return newError(KindValidation, message, nil)
}

func notFoundError(message string) *Error {
	return newError(KindNotFound, message, nil)
}

func invalidStateError(message string) *Error {
	return newError(KindInvalidState, message, nil)
}

func gatewayError(message string, err error) *Error {
	return newError(KindGateway, message, err)
}

func configurationError(message string) *Error {
	return newError(KindConfiguration, message, nil)
}

// KindOf returns the failure kind, or "" for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
