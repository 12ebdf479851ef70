package form_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/form"
)

func countingRule(calls *atomic.Int32) form.Rule {
	return form.RuleFunc(func(context.Context, form.Field, []form.Field) error {
		calls.Add(1)
		return nil
	})
}

func TestBind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := form.Bind(ctx, nil, form.NewElement(form.KindInput, "x"), form.Options{})
	assert.ErrorIs(t, err, form.ErrNoForm)

	_, err = form.Bind(ctx, form.New(), nil, form.Options{})
	assert.ErrorIs(t, err, form.ErrNilField)

	_, err = form.Bind(ctx, form.New(), form.NewElement(form.KindInput, ""), form.Options{})
	assert.ErrorIs(t, err, form.ErrMissingName)

	f := form.New()
	el := form.NewElement(form.KindInput, "x")
	c, err := form.Bind(ctx, f, el, form.Options{})
	require.NoError(t, err)
	assert.Same(t, el, c.Field())
	assert.Same(t, el, f.Lookup("x"))
	assert.False(t, c.State().Validated)
}

func TestControl_Focus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := form.New()
	el := form.NewElement(form.KindInput, "name")
	var touchedInHandler atomic.Bool
	c, err := form.Bind(ctx, f, el, form.Options{
		OnFocus: func(context.Context, form.Event) { touchedInHandler.Store(f.Touched("name")) },
	})
	require.NoError(t, err)

	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventFocus}))
	assert.False(t, touchedInHandler.Load(), "handler runs before the field is touched")
	assert.True(t, f.Touched("name"))
	assert.False(t, c.State().Validated, "focus does not validate")
}

func TestControl_Triggers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name     string
		behavior form.Behavior
		event    form.EventType
		want     int32
	}{
		{"blur enabled", form.Behavior{Blur: true}, form.EventBlur, 1},
		{"blur disabled", form.Behavior{}, form.EventBlur, 0},
		{"change enabled", form.Behavior{Change: true}, form.EventChange, 1},
		{"change disabled", form.Behavior{Blur: true}, form.EventChange, 0},
		{"recheck before first validation", form.Behavior{Recheck: true}, form.EventChange, 0},
		{"click enabled", form.Behavior{Click: true}, form.EventClick, 1},
		{"click disabled", form.Behavior{}, form.EventClick, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var calls, handled atomic.Int32
			handler := func(context.Context, form.Event) { handled.Add(1) }

			f := form.New()
			el := form.NewElement(form.KindInput, "name", form.WithValue("v"))
			c, err := form.Bind(ctx, f, el, form.Options{
				Behavior: tt.behavior,
				Rules:    []form.Rule{countingRule(&calls)},
				OnBlur:   handler,
				OnChange: handler,
				OnClick:  handler,
			})
			require.NoError(t, err)

			require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventFocus}))
			require.NoError(t, c.Dispatch(ctx, form.Event{Type: tt.event}))
			assert.Equal(t, tt.want, calls.Load())
			assert.Equal(t, int32(1), handled.Load())
		})
	}
}

func TestControl_Recheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var calls atomic.Int32
	f := form.New()
	el := form.NewElement(form.KindInput, "name", form.WithValue("v"))
	c, err := form.Bind(ctx, f, el, form.Options{
		Behavior: form.Behavior{Blur: true, Recheck: true},
		Rules:    []form.Rule{countingRule(&calls)},
	})
	require.NoError(t, err)

	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventFocus}))
	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventChange}))
	assert.Zero(t, calls.Load())

	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventBlur}))
	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventChange}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestControl_UnknownEvent(t *testing.T) {
	t.Parallel()

	c, err := form.Bind(context.Background(), form.New(), form.NewElement(form.KindInput, "x"), form.Options{})
	require.NoError(t, err)
	assert.ErrorIs(t, c.Dispatch(context.Background(), form.Event{Type: "hover"}), form.ErrUnknownEvent)
}

func TestControl_Debounce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var calls atomic.Int32
	var seen atomic.Value
	f := form.New()
	el := form.NewElement(form.KindInput, "email")
	c, err := form.Bind(ctx, f, el, form.Options{
		Behavior: form.Behavior{Change: true, Debounce: 40 * time.Millisecond},
		Rules: []form.Rule{form.RuleFunc(func(_ context.Context, field form.Field, _ []form.Field) error {
			calls.Add(1)
			seen.Store(field.Value())
			return nil
		})},
	})
	require.NoError(t, err)
	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventFocus}))

	for _, v := range []string{"a", "ab", "abc", "abcd", "abcde"} {
		el.SetValue(v)
		require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventChange}))
		time.Sleep(5 * time.Millisecond)
	}
	assert.Zero(t, calls.Load(), "nothing runs inside the quiet window")
	assert.True(t, c.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "abcde", seen.Load())
	assert.False(t, c.Pending())
	assert.True(t, c.State().IsValid())
}

func TestControl_FormDefaultDebounce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var calls atomic.Int32
	f := form.New(form.WithDefaultDebounce(30 * time.Millisecond))
	el := form.NewElement(form.KindInput, "q", form.WithValue("v"))

	debounced, err := form.Bind(ctx, f, el, form.Options{
		Behavior: form.Behavior{Blur: true},
		Rules:    []form.Rule{countingRule(&calls)},
	})
	require.NoError(t, err)
	require.NoError(t, debounced.Dispatch(ctx, form.Event{Type: form.EventFocus}))
	require.NoError(t, debounced.Dispatch(ctx, form.Event{Type: form.EventBlur}))
	assert.Zero(t, calls.Load())
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	var immediate atomic.Int32
	other := form.NewElement(form.KindInput, "r", form.WithValue("v"))
	c, err := form.Bind(ctx, f, other, form.Options{
		Behavior: form.Behavior{Blur: true, Debounce: -1},
		Rules:    []form.Rule{countingRule(&immediate)},
	})
	require.NoError(t, err)
	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventFocus}))
	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventBlur}))
	assert.Equal(t, int32(1), immediate.Load())
}

func TestControl_Close(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var calls atomic.Int32
	f := form.New()
	el := form.NewElement(form.KindInput, "email", form.WithValue("v"))
	c, err := form.Bind(ctx, f, el, form.Options{
		Behavior: form.Behavior{Change: true, Debounce: 20 * time.Millisecond},
		Rules:    []form.Rule{countingRule(&calls)},
	})
	require.NoError(t, err)
	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventFocus}))
	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventChange}))

	c.Close()
	c.Close()
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, calls.Load())
	assert.Nil(t, f.Lookup("email"))
	assert.False(t, f.Touched("email"))
	assert.ErrorIs(t, c.Dispatch(ctx, form.Event{Type: form.EventBlur}), form.ErrControlClosed)
}

func TestControl_OnState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var states []form.State
	f := form.New()
	el := form.NewElement(form.KindInput, "name", form.WithRequired())
	c, err := form.Bind(ctx, f, el, form.Options{
		Behavior: form.Behavior{Blur: true, Recheck: true},
		OnState:  func(s form.State) { states = append(states, s) },
	})
	require.NoError(t, err)

	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventFocus}))
	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventBlur}))
	el.SetValue("bob")
	require.NoError(t, c.Dispatch(ctx, form.Event{Type: form.EventChange}))

	require.Len(t, states, 2)
	assert.True(t, states[0].IsInvalid())
	assert.True(t, states[1].IsValid())
}
