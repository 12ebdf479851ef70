package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/formguard/pkg/logger"
)

// SubmitEvent is the submission event handed to Submit and forwarded to the
// submit callback.
type SubmitEvent struct {
	// Data carries host-specific payload, e.g. the originating request.
	Data any

	mu        sync.Mutex
	prevented bool
}

// PreventDefault stops the host's default submission.
func (e *SubmitEvent) PreventDefault() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prevented = true
}

func (e *SubmitEvent) DefaultPrevented() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prevented
}

// SubmitFunc is the external submit callback.
type SubmitFunc func(ctx context.Context, e *SubmitEvent) error

// Form owns the field registry, the touch tracker and the submit protocol
// of one mounted form.
type Form struct {
	name       string
	registry   *Registry
	touched    *TouchTracker
	errors     *ErrorCache
	logger     *slog.Logger
	onSubmit   SubmitFunc
	staleGuard bool
	debounce   time.Duration
}

// Option configures a Form.
type Option func(*Form)

// WithName sets the name used in log records.
func WithName(name string) Option {
	return func(f *Form) { f.name = name }
}

// WithErrorCache shares an error cache between forms. Nil is ignored.
func WithErrorCache(c *ErrorCache) Option {
	return func(f *Form) {
		if c != nil {
			f.errors = c
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithOnSubmit sets the callback invoked after a fully valid submission.
func WithOnSubmit(fn SubmitFunc) Option {
	return func(f *Form) { f.onSubmit = fn }
}

// WithStaleGuard drops the result of a validation run when a newer run for
// the same field started before it finished. Off by default: the last run
// to finish wins.
func WithStaleGuard(enabled bool) Option {
	return func(f *Form) { f.staleGuard = enabled }
}

// WithDefaultDebounce sets the debounce used by controls that do not
// configure their own.
func WithDefaultDebounce(d time.Duration) Option {
	return func(f *Form) { f.debounce = d }
}

// New creates a form with its own registry, touch tracker and error cache.
func New(opts ...Option) *Form {
	f := &Form{
		name:     "form",
		registry: NewRegistry(),
		touched:  NewTouchTracker(),
		errors:   NewErrorCache(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) Name() string { return f.name }

// Errors returns the error cache used for interning.
func (f *Form) Errors() *ErrorCache { return f.errors }

// Register mounts field with its details. A field with the same identity is
// replaced.
func (f *Form) Register(field Field, d Details) error {
	if field == nil {
		return ErrNilField
	}
	if field.Name() == "" {
		return ErrMissingName
	}
	f.registry.Register(field, d)
	f.logger.Debug("field registered", logger.Form(f.name), logger.Field(Identity(field)))
	return nil
}

// Unregister unmounts field. A later mount of the same name starts untouched.
func (f *Form) Unregister(field Field) {
	if field == nil {
		return
	}
	f.registry.Unregister(field)
	f.touched.Forget(field.Name())
	f.logger.Debug("field unregistered", logger.Form(f.name), logger.Field(Identity(field)))
}

// Lookup resolves an identity or name to a mounted field, or nil.
func (f *Form) Lookup(key string) Field {
	return f.registry.Lookup(key)
}

// Fields returns the mounted fields in registration order.
func (f *Form) Fields() []Field {
	return f.registry.Fields()
}

// Touch marks field as touched.
func (f *Form) Touch(field Field) {
	if field == nil {
		return
	}
	f.touched.Touch(field.Name())
}

func (f *Form) Touched(name string) bool {
	return f.touched.Touched(name)
}

// ValidateOne validates a single field. Untouched fields are skipped unless
// force is set.
func (f *Form) ValidateOne(ctx context.Context, field Field, force bool) error {
	return f.validateSingle(ctx, field, force)
}

// Validate validates the event target and then every mounted field listed
// in the target's Other identities, in that order. Unmounted identities are
// skipped.
func (f *Form) Validate(ctx context.Context, e Event) error {
	if e.Target == nil {
		return ErrNilField
	}
	id := Identity(e.Target)
	target, ok := f.registry.get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotRegistered, id)
	}

	if err := f.validateSingle(ctx, target.field, false); err != nil {
		return err
	}

	var errs []error
	for _, other := range target.details.Other {
		dep, ok := f.registry.get(other)
		if !ok {
			continue
		}
		if err := f.validateSingle(ctx, dep.field, false); err != nil {
			if ctx.Err() != nil {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CheckValidity re-runs the native checks of every mounted field and
// reports whether none of them fails, custom errors included.
func (f *Form) CheckValidity() bool {
	valid := true
	for _, field := range f.registry.Fields() {
		if !field.CheckValidity() {
			valid = false
		}
	}
	return valid
}

// Submit runs the submission protocol: the default action is prevented,
// every mounted field is force-validated in registration order, each
// settling before the next starts, and the submit callback runs only when
// no field fails afterwards. It reports whether the form was valid.
// The returned error is a context error or the callback's error.
func (f *Form) Submit(ctx context.Context, e *SubmitEvent) (bool, error) {
	if e == nil {
		e = &SubmitEvent{}
	}
	e.PreventDefault()

	for _, field := range f.registry.Fields() {
		if err := f.validateSingle(ctx, field, true); err != nil {
			if ctx.Err() != nil {
				return false, err
			}
			// unmounted while the submission was running
			if !errors.Is(err, ErrNotRegistered) {
				return false, err
			}
		}
	}

	if !f.CheckValidity() {
		f.logger.InfoContext(ctx, "submission blocked by invalid fields", logger.Form(f.name))
		return false, nil
	}

	if f.onSubmit == nil {
		return true, nil
	}
	if err := f.onSubmit(ctx, e); err != nil {
		f.logger.ErrorContext(ctx, "submit callback failed", logger.Form(f.name), logger.Error(err))
		return true, err
	}
	return true, nil
}
