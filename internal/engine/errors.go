package engine

import (
	"errors"
	"fmt"
)

// Kind classifies engine errors. Validation and limit errors are fully
// recoverable locally; store errors come from the durable backend.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindLimitReached Kind = "limit_reached"
	KindNotFound     Kind = "not_found"
	KindStore        Kind = "store"

	// KindNotAuthenticated has no local producer; a remote storage
	// backend maps its auth failures onto it.
	KindNotAuthenticated Kind = "not_authenticated"
)

// Error is the typed error returned across the engine's public boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// HasKind reports whether err is an engine Error of the given kind.
func HasKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return HasKind(err, KindValidation) }

// IsLimitReached reports whether err is a plan-limit error.
func IsLimitReached(err error) bool { return HasKind(err, KindLimitReached) }

// IsNotFound reports whether err references a missing record.
func IsNotFound(err error) bool { return HasKind(err, KindNotFound) }

// IsStore reports whether err comes from the durable store boundary.
func IsStore(err error) bool { return HasKind(err, KindStore) }

// IsNotAuthenticated reports whether err is an authentication failure.
func IsNotAuthenticated(err error) bool { return HasKind(err, KindNotAuthenticated) }
