package schema

import (
	"errors"
	"fmt"
)

// Kind classifies a phonebook failure.
type Kind string

const (
	KindValidation    Kind = "VALIDATION_ERROR"
	KindNotFound      Kind = "NOT_FOUND"
	KindDuplicateName Kind = "DUPLICATE_NAME"
	KindMalformedID   Kind = "MALFORMED_ID"
	KindStore         Kind = "STORE_ERROR"
)

// Violation names the validation rule a candidate broke.
type Violation string

const (
	MissingField        Violation = "MissingField"
	NameTooShort        Violation = "NameTooShort"
	NumberTooShort      Violation = "NumberTooShort"
	NumberFormatInvalid Violation = "NumberFormatInvalid"
)

// Error is the tagged error returned by the phonebook service and the SDK.
type Error struct {
	Kind      Kind
	Violation Violation // set for KindValidation only
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindStore {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind, so errors.Is(err, ErrNotFound) works
// for any not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Violation != "" && t.Violation != e.Violation {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel errors for errors.Is comparisons.
var (
	ErrValidation    = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "person not found"}
	ErrDuplicateName = &Error{Kind: KindDuplicateName, Message: "name must be unique"}
	ErrMalformedID   = &Error{Kind: KindMalformedID, Message: "malformatted id"}
	ErrStore         = &Error{Kind: KindStore, Message: "record store failure"}
)

// KindOf classifies err. Anything that is not a phonebook error is a store failure.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindStore
}
