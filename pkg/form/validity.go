package form

import "github.com/dmitrymomot/formguard/pkg/validator"

// Validity mirrors the constraint-validation flags of a host element.
type Validity struct {
	ValueMissing    bool
	TypeMismatch    bool
	PatternMismatch bool
	TooLong         bool
	TooShort        bool
	RangeUnderflow  bool
	RangeOverflow   bool
	StepMismatch    bool
	BadInput        bool
	CustomError     bool
}

// Valid reports whether no flag is set.
func (v Validity) Valid() bool {
	return v == Validity{}
}

// Code returns the name of the first set flag, or "" when none is set.
func (v Validity) Code() string {
	for _, f := range v.flags() {
		if f.set {
			return f.code
		}
	}
	return ""
}

// Set raises the flag named by code. Unknown codes are ignored.
func (v *Validity) Set(code string) {
	switch code {
	case validator.CodeValueMissing:
		v.ValueMissing = true
	case validator.CodeTypeMismatch:
		v.TypeMismatch = true
	case validator.CodePatternMismatch:
		v.PatternMismatch = true
	case validator.CodeTooLong:
		v.TooLong = true
	case validator.CodeTooShort:
		v.TooShort = true
	case validator.CodeRangeUnderflow:
		v.RangeUnderflow = true
	case validator.CodeRangeOverflow:
		v.RangeOverflow = true
	case validator.CodeStepMismatch:
		v.StepMismatch = true
	case validator.CodeBadInput:
		v.BadInput = true
	case validator.CodeCustomError:
		v.CustomError = true
	}
}

type flag struct {
	code string
	set  bool
}

func (v Validity) flags() [10]flag {
	return [10]flag{
		{validator.CodeValueMissing, v.ValueMissing},
		{validator.CodeTypeMismatch, v.TypeMismatch},
		{validator.CodePatternMismatch, v.PatternMismatch},
		{validator.CodeTooLong, v.TooLong},
		{validator.CodeTooShort, v.TooShort},
		{validator.CodeRangeUnderflow, v.RangeUnderflow},
		{validator.CodeRangeOverflow, v.RangeOverflow},
		{validator.CodeStepMismatch, v.StepMismatch},
		{validator.CodeBadInput, v.BadInput},
		{validator.CodeCustomError, v.CustomError},
	}
}
