package phonebook

import (
	"errors"
	"testing"

	"github.com/celerix-dev/phonebook/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		candidate schema.Candidate
		want      Violation
	}{
		{"valid two digit area code", schema.Candidate{Name: "Arto Hellas", Number: "09-1234556"}, ""},
		{"valid three digit area code", schema.Candidate{Name: "Arto Hellas", Number: "040-22334455"}, ""},
		{"valid grouped number", schema.Candidate{Name: "Ada Lovelace", Number: "39-44-5323523"}, ""},
		{"name of exactly three characters", schema.Candidate{Name: "Ada", Number: "040-123456"}, ""},
		{"name counted in characters", schema.Candidate{Name: "Åsa", Number: "040-123456"}, ""},
		{"missing name", schema.Candidate{Number: "040-123456"}, MissingField},
		{"missing number", schema.Candidate{Name: "Arto Hellas"}, MissingField},
		{"short name", schema.Candidate{Name: "Al", Number: "123-4567"}, NameTooShort},
		{"short number", schema.Candidate{Name: "Arto Hellas", Number: "12-3456"}, NumberTooShort},
		{"single digit area code", schema.Candidate{Name: "Arto Hellas", Number: "1-22334455"}, NumberFormatInvalid},
		{"four digit area code", schema.Candidate{Name: "Arto Hellas", Number: "1234-556677"}, NumberFormatInvalid},
		{"no hyphen", schema.Candidate{Name: "Arto Hellas", Number: "0401234567"}, NumberFormatInvalid},
		{"letters", schema.Candidate{Name: "Arto Hellas", Number: "040-12a4567"}, NumberFormatInvalid},
		{"trailing hyphen", schema.Candidate{Name: "Arto Hellas", Number: "040-123456-"}, NumberFormatInvalid},
		{"short and malformed reports format", schema.Candidate{Name: "Arto Hellas", Number: "abc"}, NumberFormatInvalid},
		{"name checked before number", schema.Candidate{Name: "Al", Number: "abc"}, NameTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.candidate)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var pe *Error
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, KindValidation, pe.Kind)
			assert.Equal(t, tt.want, pe.Violation)
			assert.NotEmpty(t, pe.Message)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(schema.Candidate{Name: "Arto Hellas", Number: "12345678"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "12345678 is not a valid phone number")

	err = v.Validate(schema.Candidate{Name: "Al", Number: "040-123456"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shorter than the minimum allowed length (3)")
}
