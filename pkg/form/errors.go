package form

import "errors"

var (
	// ErrNoForm is returned when a field is bound without a form.
	ErrNoForm = errors.New("form: field requires a form")

	// ErrMissingName is returned when a field without a name is registered.
	ErrMissingName = errors.New("form: field name is required")

	// ErrNilField is returned when a nil field is registered or validated.
	ErrNilField = errors.New("form: field is nil")

	// ErrNotRegistered is returned when validating a field that is not mounted.
	ErrNotRegistered = errors.New("form: field is not registered")

	// ErrControlClosed is returned when events are dispatched to a closed control.
	ErrControlClosed = errors.New("form: control is closed")

	// ErrUnknownEvent is returned for event types the trigger layer does not handle.
	ErrUnknownEvent = errors.New("form: unknown event type")
)
