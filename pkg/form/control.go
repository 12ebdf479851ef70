package form

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/formguard/pkg/logger"
)

// EventType names a field interaction.
type EventType string

const (
	EventFocus  EventType = "focus"
	EventBlur   EventType = "blur"
	EventChange EventType = "change"
	EventClick  EventType = "click"
)

// Event is a raw field interaction forwarded by the rendering layer.
// A nil Target means the control's own field.
type Event struct {
	Type   EventType
	Target Field
}

// Handler is a caller-supplied event handler, run before validation.
type Handler func(ctx context.Context, e Event)

// Behavior selects which interactions trigger validation.
type Behavior struct {
	Blur    bool // validate on blur
	Change  bool // validate on every change
	Click   bool // validate on click
	Recheck bool // validate on change once the field was validated
	// Debounce delays validation until events stop for this long.
	// Zero uses the form default; negative disables debouncing.
	Debounce time.Duration
}

// Triggers names validation triggers to turn off.
type Triggers struct {
	Blur, Change, Click, Recheck bool
}

// Options configure a bound field.
type Options struct {
	Behavior
	// Disable turns off triggers that group defaults would enable.
	Disable Triggers

	Other []string
	Rules []Rule

	OnFocus  Handler
	OnBlur   Handler
	OnChange Handler
	OnClick  Handler

	// OnState is subscribed to the field's state changes.
	OnState func(State)
	// State shares one FieldState between several controls. Nil creates
	// a state for this control alone.
	State *FieldState
}

// Control connects one field to a form: it registers the field and turns
// interaction events into validation calls.
type Control struct {
	form   *Form
	field  Field
	opts   Options
	state  *FieldState
	ctx    context.Context
	cancel context.CancelFunc

	debounce    *debouncer
	unsubscribe func()
	closed      atomic.Bool
}

// Bind registers field with f and returns its control. Debounced
// validations keep the values of ctx but not its cancellation; only Close
// ends the control.
func Bind(ctx context.Context, f *Form, field Field, opts Options) (*Control, error) {
	if f == nil {
		return nil, ErrNoForm
	}
	if field == nil {
		return nil, ErrNilField
	}

	state := opts.State
	if state == nil {
		state = NewFieldState()
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := &Control{
		form:   f,
		field:  field,
		opts:   opts,
		state:  state,
		ctx:    ctx,
		cancel: cancel,
	}

	delay := opts.Debounce
	if delay == 0 {
		delay = f.debounce
	}
	if delay > 0 {
		c.debounce = newDebouncer(delay, c.fireDebounced)
	}

	if err := f.Register(field, Details{
		Rules:  opts.Rules,
		Other:  opts.Other,
		Update: state.Update,
	}); err != nil {
		cancel()
		return nil, err
	}
	c.unsubscribe = state.Subscribe(opts.OnState)

	return c, nil
}

func (c *Control) Field() Field            { return c.field }
func (c *Control) FieldState() *FieldState { return c.state }
func (c *Control) State() State            { return c.state.State() }

// Dispatch handles one interaction event. Caller handlers run first; then
// focus marks the field touched, and change, blur and click trigger
// validation according to the control's Behavior.
func (c *Control) Dispatch(ctx context.Context, e Event) error {
	if c.closed.Load() {
		return ErrControlClosed
	}
	if e.Target == nil {
		e.Target = c.field
	}

	switch e.Type {
	case EventFocus:
		call(ctx, c.opts.OnFocus, e)
		c.form.Touch(e.Target)
		return nil
	case EventChange:
		call(ctx, c.opts.OnChange, e)
		if (c.state.Validated() && c.opts.Recheck) || c.opts.Change {
			return c.trigger(ctx, e)
		}
		return nil
	case EventBlur:
		call(ctx, c.opts.OnBlur, e)
		if c.opts.Blur {
			return c.trigger(ctx, e)
		}
		return nil
	case EventClick:
		call(ctx, c.opts.OnClick, e)
		if c.opts.Click {
			return c.trigger(ctx, e)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
	}
}

// Pending reports whether a debounced validation is waiting to run.
func (c *Control) Pending() bool {
	return c.debounce != nil && c.debounce.pending()
}

// Close unregisters the field and cancels pending and in-flight work.
// It is safe to call more than once.
func (c *Control) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	if c.debounce != nil {
		c.debounce.stop()
	}
	c.cancel()
	c.unsubscribe()
	c.form.Unregister(c.field)
}

func (c *Control) trigger(ctx context.Context, e Event) error {
	if c.debounce == nil {
		return c.form.Validate(ctx, e)
	}
	c.debounce.push(e)
	return nil
}

func (c *Control) fireDebounced(e Event) {
	if c.closed.Load() {
		return
	}
	if err := c.form.Validate(c.ctx, e); err != nil && c.ctx.Err() == nil {
		c.form.logger.WarnContext(c.ctx, "debounced validation failed",
			logger.Form(c.form.name),
			logger.Field(Identity(e.Target)),
			logger.Error(err),
		)
	}
}

func call(ctx context.Context, h Handler, e Event) {
	if h != nil {
		h(ctx, e)
	}
}
