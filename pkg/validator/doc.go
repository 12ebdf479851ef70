// Package validator provides small, declarative validation rules for form
// values.
//
// A Rule couples a boolean Check function with translation-friendly error
// metadata. Every rule also carries a constraint Code that mirrors the
// constraint-validation flag names used by HTML forms (valueMissing,
// tooShort, patternMismatch, ...), so the same rule values back both the
// native constraint emulation in pkg/form and user-defined custom rules.
//
// # Usage
//
//	err := validator.Apply(
//	    validator.RequiredString("email", email),
//	    validator.ValidEmail("email", email),
//	    validator.MinLenString("password", password, 8),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    // inspect field-level messages
//	}
//
// First evaluates rules in order and returns only the first failure, which is
// what per-field constraint checking needs.
//
// # Error Handling
//
// ValidationErrors implements the error interface and can be detected with
// errors.As. A single ValidationError is also an error and exposes its
// constraint code through Code().
package validator
