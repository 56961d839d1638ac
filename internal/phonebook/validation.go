package phonebook

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/celerix-dev/phonebook/pkg/schema"
	"github.com/go-playground/validator/v10"
)

const (
	minNameLength   = 3
	minNumberLength = 8
)

// numberPattern is a 2-3 digit area code followed by hyphen separated digit groups.
var numberPattern = regexp.MustCompile(`^\d{2,3}(-\d+)+$`)

// candidateRules carries the policy as validator tags. Rules on a field run in
// order and stop at the first failure, so a malformed number is always reported
// as a format problem before its length is considered.
type candidateRules struct {
	Name   string `json:"name" validate:"required,min=3"`
	Number string `json:"number" validate:"required,phonenumber,min=8"`
}

// Validator applies the candidate validation policy.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator with the phone number rule registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phonenumber", func(fl validator.FieldLevel) bool {
		return numberPattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate returns nil for a well-formed candidate, or an *Error of kind
// KindValidation describing the first violation (name before number).
func (v *Validator) Validate(c schema.Candidate) error {
	err := v.validate.Struct(candidateRules{Name: c.Name, Number: c.Number})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}
	return violationFor(fieldErrs[0], c)
}

func violationFor(fe validator.FieldError, c schema.Candidate) *Error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return newValidationError(MissingField, "content missing: "+field+" is required")
	case "phonenumber":
		return newValidationError(NumberFormatInvalid, fmt.Sprintf(
			"%s is not a valid phone number! The correct format is XX-XXXXXXX or XXX-XXXXXXXX", c.Number))
	case "min":
		if field == "name" {
			return newValidationError(NameTooShort, fmt.Sprintf(
				"Person validation failed: name: `%s` is shorter than the minimum allowed length (%d)", c.Name, minNameLength))
		}
		return newValidationError(NumberTooShort, fmt.Sprintf(
			"Person validation failed: number: `%s` is shorter than the minimum allowed length (%d)", c.Number, minNumberLength))
	default:
		return newValidationError(Violation(fe.Tag()), field+" is invalid")
	}
}
