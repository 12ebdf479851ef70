package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: requiredError(field),
	}
}

// PresentString validates that a string is not empty. Unlike RequiredString,
// whitespace counts as a value, as it does for a required text control.
func PresentString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return value != ""
		},
		Error: requiredError(field),
	}
}

func requiredError(field string) ValidationError {
	return ValidationError{
		Field:          field,
		Message:        "field is required",
		ConstraintCode: CodeValueMissing,
		TranslationKey: "validation.required",
		TranslationValues: map[string]any{
			"field": field,
		},
	}
}

// MinLenString counts characters, not bytes.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) >= min
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at least %d characters long", min),
			ConstraintCode: CodeTooShort,
			TranslationKey: "validation.min_length",
			TranslationValues: map[string]any{
				"field":  field,
				"min":    min,
				"length": utf8.RuneCountInString(value),
			},
		},
	}
}

func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %d characters long", max),
			ConstraintCode: CodeTooLong,
			TranslationKey: "validation.max_length",
			TranslationValues: map[string]any{
				"field":  field,
				"max":    max,
				"length": utf8.RuneCountInString(value),
			},
		},
	}
}

// EqualString validates that value equals the value of another field.
func EqualString(field, value, otherField, otherValue string) Rule {
	return Rule{
		Check: func() bool {
			return value == otherValue
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must match %s", otherField),
			ConstraintCode: CodeCustomError,
			TranslationKey: "validation.equal_field",
			TranslationValues: map[string]any{
				"field": field,
				"other": otherField,
			},
		},
	}
}

// Required is an alias for RequiredString.
func Required(field, value string) Rule {
	return RequiredString(field, value)
}
