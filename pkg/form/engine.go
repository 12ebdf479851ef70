package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/formguard/pkg/async"
	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

// fallbackMessage replaces empty failure messages, which the host would
// otherwise read as "no custom error".
const fallbackMessage = "invalid value"

// validateSingle runs one validation pass for field.
// Untouched fields are skipped unless force is set.
func (f *Form) validateSingle(ctx context.Context, field Field, force bool) error {
	if field == nil {
		return ErrNilField
	}
	if !force && !f.touched.Touched(field.Name()) {
		return nil
	}

	id := Identity(field)
	e, ok := f.registry.get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotRegistered, id)
	}
	field = e.field
	seq := e.seq.Add(1)

	field.SetCustomValidity("")
	if !field.CheckValidity() {
		err := f.errors.Get(field.ValidationMessage(), field.Validity().Code())
		f.apply(ctx, e, seq, err)
		return nil
	}

	failure, err := f.runRules(ctx, e, field)
	if err != nil {
		return err
	}
	if failure == nil {
		f.apply(ctx, e, seq, nil)
		return nil
	}

	field.SetCustomValidity(failure.Message)
	field.CheckValidity()
	f.apply(ctx, e, seq, failure)
	return nil
}

// runRules evaluates the custom rules in order and returns the first failure.
// Only context cancellation is returned as an error.
func (f *Form) runRules(ctx context.Context, e *entry, field Field) (*Error, error) {
	if len(e.details.Rules) == 0 {
		return nil, nil
	}

	all := f.registry.Fields()
	for _, rule := range e.details.Rules {
		if rule == nil {
			continue
		}
		failure, err := f.evaluate(ctx, rule, field, all)
		if err != nil {
			return nil, err
		}
		if failure != nil {
			return f.normalize(ctx, field, failure), nil
		}
	}
	return nil, nil
}

func (f *Form) evaluate(ctx context.Context, rule Rule, field Field, all []Field) (error, error) {
	pending, panicErr := invoke(ctx, rule, field, all)
	if panicErr != nil {
		f.logger.WarnContext(ctx, "validation rule panicked",
			logger.Form(f.name),
			logger.Field(Identity(field)),
			logger.Error(panicErr),
		)
		return panicErr, nil
	}
	if pending == nil {
		return nil, nil
	}

	failure, err := pending.AwaitContext(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		var perr *async.PanicError
		if errors.As(err, &perr) {
			f.logger.WarnContext(ctx, "async validation rule panicked",
				logger.Form(f.name),
				logger.Field(Identity(field)),
				logger.Error(err),
			)
		}
		return err, nil
	}
	return failure, nil
}

func invoke(ctx context.Context, rule Rule, field Field, all []Field) (pending *async.Future[error], panicErr error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr = &async.PanicError{Value: r}
		}
	}()
	return rule.Validate(ctx, field, all), nil
}

// normalize interns a rule failure. A failure exposing a non-empty Code()
// keeps it; any other failure is a custom error. A failure whose methods
// panic, such as a typed nil, becomes a custom error with the fallback message.
func (f *Form) normalize(ctx context.Context, field Field, failure error) *Error {
	message, code, panicErr := describe(failure)
	if panicErr != nil {
		f.logger.WarnContext(ctx, "validation failure could not be read",
			logger.Form(f.name),
			logger.Field(Identity(field)),
			logger.Error(panicErr),
		)
		message, code = fallbackMessage, validator.CodeCustomError
	}
	if message == "" {
		message = fallbackMessage
	}
	return f.errors.Get(message, code)
}

func describe(failure error) (message, code string, panicErr error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr = &async.PanicError{Value: r}
		}
	}()

	code = validator.CodeCustomError
	var coder interface{ Code() string }
	if errors.As(failure, &coder) {
		if c := coder.Code(); c != "" {
			code = c
		}
	}
	return failure.Error(), code, nil
}

func (f *Form) apply(ctx context.Context, e *entry, seq uint64, err *Error) {
	if f.staleGuard && e.seq.Load() != seq {
		f.logger.DebugContext(ctx, "stale validation result dropped",
			logger.Form(f.name),
			logger.Field(Identity(e.field)),
		)
		return
	}

	if err != nil {
		f.logger.DebugContext(ctx, "field invalid",
			logger.Form(f.name),
			logger.Field(Identity(e.field)),
			logger.Code(err.Code),
		)
	} else {
		f.logger.DebugContext(ctx, "field valid",
			logger.Form(f.name),
			logger.Field(Identity(e.field)),
		)
	}

	if e.details.Update != nil {
		e.details.Update(err)
	}
}

