// Package form orchestrates validation of form fields that live in a host
// rendering layer.
//
// A Form owns a registry of mounted fields, a touch tracker, and an error
// cache. Fields are registered with a set of Details (ordered rules, the
// identities of "other" fields to re-check alongside them, and a state
// updater). Validation runs the host's native constraint checks first and
// only then the custom rules, one after another, stopping at the first
// failure. Rules may be synchronous or return a pending *async.Future.
//
// Rendering layers normally do not call Register directly. They Bind a
// field, which registers it and returns a Control that turns raw focus,
// change, blur and click events into validation calls according to the
// field's behaviour flags, with optional trailing-edge debounce.
//
//	f := form.New(form.WithOnSubmit(func(ctx context.Context, e *form.SubmitEvent) error {
//	    return createAccount(ctx)
//	}))
//
//	email := form.NewElement(form.KindInput, "email", form.WithType(form.TypeEmail), form.WithRequired())
//	ctrl, err := form.Bind(ctx, f, email, form.Options{
//	    Behavior: form.Behavior{Blur: true, Recheck: true, Debounce: 300 * time.Millisecond},
//	    Rules:    []form.Rule{uniqueEmail},
//	})
//
//	ctrl.Dispatch(ctx, form.Event{Type: form.EventFocus})
//	email.SetValue("user@example.com")
//	ctrl.Dispatch(ctx, form.Event{Type: form.EventBlur})
//
//	ok, err := f.Submit(ctx, &form.SubmitEvent{})
//
// Submit force-validates every registered field in registration order and
// calls the submit callback only when no field reports a failing constraint.
//
// Failing rules never surface as Go errors. They become field State with a
// normalized *Error. Errors returned by this package are setup problems
// (ErrNoForm, ErrMissingName, ErrNotRegistered) or context cancellation.
package form
