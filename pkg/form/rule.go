package form

import (
	"context"
	"errors"

	"github.com/dmitrymomot/formguard/pkg/async"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// Rule is a custom validation rule. The returned future resolves to the
// failure (nil on success); a rejected future is a failure too.
// all holds every field registered when validation started.
type Rule interface {
	Validate(ctx context.Context, field Field, all []Field) *async.Future[error]
}

// RuleFunc is a synchronous rule. A non-nil error is the failure.
type RuleFunc func(ctx context.Context, field Field, all []Field) error

func (fn RuleFunc) Validate(ctx context.Context, field Field, all []Field) *async.Future[error] {
	return async.Resolved(fn(ctx, field, all))
}

// MessageFunc is a synchronous rule returning a failure message; "" passes.
type MessageFunc func(ctx context.Context, field Field, all []Field) string

func (fn MessageFunc) Validate(ctx context.Context, field Field, all []Field) *async.Future[error] {
	if msg := fn(ctx, field, all); msg != "" {
		return async.Resolved(errors.New(msg))
	}
	return async.Resolved[error](nil)
}

// AsyncFunc is a rule that runs in its own goroutine, e.g. a server-side
// uniqueness check.
type AsyncFunc func(ctx context.Context, field Field, all []Field) error

func (fn AsyncFunc) Validate(ctx context.Context, field Field, all []Field) *async.Future[error] {
	return async.Async(ctx, field, func(ctx context.Context, field Field) (error, error) {
		return nil, fn(ctx, field, all)
	})
}

// FutureFunc adapts a function that already returns a pending result.
type FutureFunc func(ctx context.Context, field Field, all []Field) *async.Future[error]

func (fn FutureFunc) Validate(ctx context.Context, field Field, all []Field) *async.Future[error] {
	return fn(ctx, field, all)
}

// Check adapts a declarative validator rule built from the field's state.
// The failure keeps the rule's constraint code.
func Check(build func(field Field, all []Field) validator.Rule) Rule {
	return RuleFunc(func(_ context.Context, field Field, all []Field) error {
		rule := build(field, all)
		if rule.Check() {
			return nil
		}
		return rule.Error
	})
}

// Match requires the field's value to equal the value of the field with
// the given identity (or name). It passes while that field is not mounted.
// An empty message uses the validator's default.
func Match(other, message string) Rule {
	return RuleFunc(func(_ context.Context, field Field, all []Field) error {
		target := findField(all, other)
		if target == nil {
			return nil
		}
		rule := validator.EqualString(Identity(field), field.Value(), other, target.Value())
		if rule.Check() {
			return nil
		}
		if message != "" {
			return errors.New(message)
		}
		return rule.Error
	})
}

func findField(all []Field, key string) Field {
	for _, f := range all {
		if Identity(f) == key {
			return f
		}
	}
	for _, f := range all {
		if f.Name() == key {
			return f
		}
	}
	return nil
}
