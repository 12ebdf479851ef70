package form

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

// InputType selects the type-specific native checks of an element.
type InputType string

const (
	TypeText     InputType = "text"
	TypePassword InputType = "password"
	TypeEmail    InputType = "email"
	TypeURL      InputType = "url"
	TypeNumber   InputType = "number"
)

// Constraints are the native constraints of an element.
// Zero MinLength, MaxLength and Step disable their checks.
type Constraints struct {
	Required  bool
	Type      InputType
	Pattern   string
	MinLength int
	MaxLength int
	Min       *float64
	Max       *float64
	Step      float64
}

// Element is an in-memory host element implementing Field with the
// constraint-validation semantics of HTML form controls.
//
// Email, URL and number values are checked with surrounding whitespace
// trimmed, so "   " is missing for them; for other controls whitespace is a
// value. Every constraint but required applies only to non-empty values.
type Element struct {
	mu          sync.RWMutex
	id          string
	name        string
	kind        Kind
	value       string
	constraints Constraints
	messages    *Messages

	validity Validity
	message  string
	custom   string
}

// ElementOption configures an Element.
type ElementOption func(*Element)

func WithID(id string) ElementOption {
	return func(e *Element) { e.id = id }
}

func WithValue(v string) ElementOption {
	return func(e *Element) { e.value = v }
}

func WithRequired() ElementOption {
	return func(e *Element) { e.constraints.Required = true }
}

func WithType(t InputType) ElementOption {
	return func(e *Element) { e.constraints.Type = t }
}

func WithPattern(pattern string) ElementOption {
	return func(e *Element) { e.constraints.Pattern = pattern }
}

func WithMinLength(n int) ElementOption {
	return func(e *Element) { e.constraints.MinLength = n }
}

func WithMaxLength(n int) ElementOption {
	return func(e *Element) { e.constraints.MaxLength = n }
}

func WithMin(n float64) ElementOption {
	return func(e *Element) { e.constraints.Min = &n }
}

func WithMax(n float64) ElementOption {
	return func(e *Element) { e.constraints.Max = &n }
}

func WithStep(n float64) ElementOption {
	return func(e *Element) { e.constraints.Step = n }
}

// WithConstraints replaces all constraints at once.
func WithConstraints(c Constraints) ElementOption {
	return func(e *Element) { e.constraints = c }
}

// WithMessages sets the catalog used for native validation messages.
// Nil is ignored.
func WithMessages(m *Messages) ElementOption {
	return func(e *Element) {
		if m != nil {
			e.messages = m
		}
	}
}

// NewElement creates an element of the given kind and name.
func NewElement(kind Kind, name string, opts ...ElementOption) *Element {
	e := &Element{
		name:     name,
		kind:     kind,
		messages: defaultMessages,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.constraints.Type == "" {
		e.constraints.Type = TypeText
	}
	return e
}

func (e *Element) ID() string   { return e.id }
func (e *Element) Name() string { return e.name }
func (e *Element) Kind() Kind   { return e.kind }

func (e *Element) Value() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.value
}

// SetValue updates the value. Validity is recomputed on the next CheckValidity.
func (e *Element) SetValue(v string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = v
}

func (e *Element) Constraints() Constraints {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.constraints
}

func (e *Element) Validity() Validity {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.validity
}

func (e *Element) ValidationMessage() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.message
}

func (e *Element) SetCustomValidity(message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.custom = message
	e.refresh()
}

func (e *Element) CheckValidity() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refresh()
	return e.validity.Valid()
}

// refresh recomputes validity and message. Callers hold e.mu.
func (e *Element) refresh() {
	var v Validity
	for _, code := range validator.ExtractValidationErrors(validator.Apply(e.rules()...)).Codes() {
		v.Set(code)
	}

	message := ""
	if code := v.Code(); code != "" {
		message = e.messages.Native(e.kind, e.constraints, code, utf8.RuneCountInString(e.value))
	}

	if e.custom != "" {
		v.CustomError = true
		if message == "" {
			message = e.custom
		}
	}

	e.validity = v
	e.message = message
}

func (e *Element) rules() []validator.Rule {
	c := e.constraints
	name, value := e.name, e.value
	switch c.Type {
	case TypeEmail, TypeURL, TypeNumber:
		value = strings.TrimSpace(value)
	}

	var rules []validator.Rule
	if c.Required {
		rules = append(rules, validator.PresentString(name, value))
	}
	if value == "" {
		return rules
	}

	switch c.Type {
	case TypeEmail:
		rules = append(rules, validator.ValidEmail(name, value))
	case TypeURL:
		rules = append(rules, validator.ValidURL(name, value))
	case TypeNumber:
		rules = append(rules, validator.ParsableNumber(name, value))
	}
	if c.Pattern != "" {
		rules = append(rules, validator.MatchesPattern(name, value, c.Pattern))
	}
	if c.MaxLength > 0 {
		rules = append(rules, validator.MaxLenString(name, value, c.MaxLength))
	}
	if c.MinLength > 0 {
		rules = append(rules, validator.MinLenString(name, value, c.MinLength))
	}

	if c.Type != TypeNumber {
		return rules
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return rules
	}
	base := 0.0
	if c.Min != nil {
		base = *c.Min
		rules = append(rules, validator.MinNum(name, n, *c.Min))
	}
	if c.Max != nil {
		rules = append(rules, validator.MaxNum(name, n, *c.Max))
	}
	if c.Step > 0 {
		rules = append(rules, validator.StepNum(name, n, base, c.Step))
	}
	return rules
}
