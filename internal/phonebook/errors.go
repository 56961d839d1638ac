package phonebook

import (
	"errors"

	"github.com/celerix-dev/phonebook/internal/engine"
	"github.com/celerix-dev/phonebook/pkg/schema"
)

// The taxonomy is public in pkg/schema so SDK callers can match on it.
type (
	Error     = schema.Error
	Kind      = schema.Kind
	Violation = schema.Violation
)

const (
	KindValidation    = schema.KindValidation
	KindNotFound      = schema.KindNotFound
	KindDuplicateName = schema.KindDuplicateName
	KindMalformedID   = schema.KindMalformedID
	KindStore         = schema.KindStore

	MissingField        = schema.MissingField
	NameTooShort        = schema.NameTooShort
	NumberTooShort      = schema.NumberTooShort
	NumberFormatInvalid = schema.NumberFormatInvalid
)

var (
	ErrValidation    = schema.ErrValidation
	ErrNotFound      = schema.ErrNotFound
	ErrDuplicateName = schema.ErrDuplicateName
	ErrMalformedID   = schema.ErrMalformedID
	ErrStore         = schema.ErrStore
)

// KindOf classifies err. Anything that is not a phonebook error is a store failure.
func KindOf(err error) Kind {
	return schema.KindOf(err)
}

func newValidationError(v Violation, msg string) *Error {
	return &Error{Kind: KindValidation, Violation: v, Message: msg}
}

// fromStore maps record store outcomes into the phonebook taxonomy.
func fromStore(op string, err error) *Error {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: ErrNotFound.Message, Err: err}
	case errors.Is(err, engine.ErrMalformedID):
		return &Error{Kind: KindMalformedID, Message: ErrMalformedID.Message, Err: err}
	case errors.Is(err, engine.ErrDuplicateName):
		return &Error{Kind: KindDuplicateName, Message: ErrDuplicateName.Message, Err: err}
	default:
		return &Error{Kind: KindStore, Message: op + " failed", Err: err}
	}
}
