package formdef

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strconv"

	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// RuleFactory builds a rule from its YAML spec.
type RuleFactory func(spec RuleSpec) (form.Rule, error)

// Rules maps rule names to factories.
type Rules map[string]RuleFactory

// DefaultRules returns the built-in rules:
//
//	match     args: field    value must equal the value of another field
//	regex     args: pattern  value must match an unanchored expression
//	minlength args: length   value must have at least length characters
func DefaultRules() Rules {
	return Rules{
		"match":     matchRule,
		"regex":     regexRule,
		"minlength": minLengthRule,
	}
}

// With returns a copy of r with name bound to factory.
func (r Rules) With(name string, factory RuleFactory) Rules {
	out := maps.Clone(r)
	if out == nil {
		out = Rules{}
	}
	out[name] = factory
	return out
}

// Build resolves spec.
func (r Rules) Build(spec RuleSpec) (form.Rule, error) {
	factory, ok := r[spec.Rule]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, spec.Rule)
	}
	return factory(spec)
}

func matchRule(spec RuleSpec) (form.Rule, error) {
	other, err := spec.Arg("field")
	if err != nil {
		return nil, err
	}
	return form.Match(other, spec.Message), nil
}

func regexRule(spec RuleSpec) (form.Rule, error) {
	pattern, err := spec.Arg("pattern")
	if err != nil {
		return nil, err
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, errors.Join(ErrInvalid, err)
	}
	description := spec.Args["description"]
	if description == "" {
		description = "the required"
	}
	return form.Check(func(field form.Field, _ []form.Field) validator.Rule {
		return withMessage(validator.MatchesRegex(field.Name(), field.Value(), pattern, description), spec.Message)
	}), nil
}

func minLengthRule(spec RuleSpec) (form.Rule, error) {
	raw, err := spec.Arg("length")
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: minlength %q", ErrInvalid, raw)
	}
	return form.Check(func(field form.Field, _ []form.Field) validator.Rule {
		return withMessage(validator.MinLenString(field.Name(), field.Value(), n), spec.Message)
	}), nil
}

func withMessage(r validator.Rule, message string) validator.Rule {
	if message != "" {
		r.Error.Message = message
	}
	return r
}
