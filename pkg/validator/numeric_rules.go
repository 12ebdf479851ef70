package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsableNumber validates that a non-empty string is a finite decimal number.
func ParsableNumber(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			return err == nil && !math.IsInf(n, 0) && !math.IsNaN(n)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "must be a number",
			ConstraintCode: CodeBadInput,
			TranslationKey: "validation.number",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// MinNum validates that a numeric value is greater than or equal to the minimum.
func MinNum[T Numeric](field string, value T, min T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at least %v", min),
			ConstraintCode: CodeRangeUnderflow,
			TranslationKey: "validation.min",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
			},
		},
	}
}

// MaxNum validates that a numeric value is less than or equal to the maximum.
func MaxNum[T Numeric](field string, value T, max T) Rule {
	return Rule{
		Check: func() bool {
			return value <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %v", max),
			ConstraintCode: CodeRangeOverflow,
			TranslationKey: "validation.max",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}

// StepNum validates that value is base plus a whole multiple of step.
// A non-positive step disables the check.
func StepNum(field string, value, base, step float64) Rule {
	return Rule{
		Check: func() bool {
			if step <= 0 {
				return true
			}
			n := (value - base) / step
			return math.Abs(n-math.Round(n)) < 1e-9
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be a multiple of %v", step),
			ConstraintCode: CodeStepMismatch,
			TranslationKey: "validation.step",
			TranslationValues: map[string]any{
				"field": field,
				"base":  base,
				"step":  step,
			},
		},
	}
}
