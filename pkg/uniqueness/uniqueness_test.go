package uniqueness_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/formdef"
	"github.com/dmitrymomot/formguard/pkg/uniqueness"
)

type failingChecker struct{ err error }

func (c failingChecker) Taken(context.Context, string, string) (bool, error) {
	return false, c.err
}

func TestMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := uniqueness.NewMemory().Seed("email", "taken@example.com")

	taken, err := m.Taken(ctx, "email", "taken@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = m.Taken(ctx, "username", "taken@example.com")
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, m.Reserve(ctx, "email", "new@example.com"))
	assert.ErrorIs(t, m.Reserve(ctx, "email", "new@example.com"), uniqueness.ErrTaken)
	assert.NoError(t, m.Healthcheck(ctx))
	assert.NoError(t, m.Close(ctx))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = m.Taken(cancelled, "email", "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func validate(t *testing.T, rule form.Rule, value string) *form.Error {
	t.Helper()
	f := form.New()
	el := form.NewElement(form.KindInput, "email", form.WithValue(value))
	state := form.NewFieldState()
	require.NoError(t, f.Register(el, form.Details{Rules: []form.Rule{rule}, Update: state.Update}))
	require.NoError(t, f.ValidateOne(context.Background(), el, true))
	return state.State().Error
}

func TestUnique(t *testing.T) {
	t.Parallel()

	backend := uniqueness.NewMemory().Seed("email", "taken@example.com")

	t.Run("taken value fails", func(t *testing.T) {
		err := validate(t, uniqueness.Unique(backend, "email"), "  Taken@Example.com ")
		require.NotNil(t, err)
		assert.Equal(t, uniqueness.DefaultTakenMessage, err.Message)
		assert.Equal(t, "customError", err.Code)
	})

	t.Run("free value passes", func(t *testing.T) {
		assert.Nil(t, validate(t, uniqueness.Unique(backend, "email"), "free@example.com"))
	})

	t.Run("empty value passes", func(t *testing.T) {
		assert.Nil(t, validate(t, uniqueness.Unique(backend, "email"), ""))
	})

	t.Run("custom message", func(t *testing.T) {
		err := validate(t, uniqueness.Unique(backend, "email", uniqueness.WithMessage("Email is registered")), "taken@example.com")
		require.NotNil(t, err)
		assert.Equal(t, "Email is registered", err.Message)
	})

	t.Run("without normalization", func(t *testing.T) {
		assert.Nil(t, validate(t, uniqueness.Unique(backend, "email", uniqueness.WithNormalizer(nil)), "TAKEN@example.com"))
	})

	t.Run("backend error fails closed", func(t *testing.T) {
		rule := uniqueness.Unique(failingChecker{err: errors.New("down")}, "email")
		err := validate(t, rule, "a@example.com")
		require.NotNil(t, err)
		assert.Equal(t, uniqueness.DefaultUnavailableMessage, err.Message)
	})

	t.Run("backend error fails open", func(t *testing.T) {
		rule := uniqueness.Unique(failingChecker{err: errors.New("down")}, "email", uniqueness.WithFailOpen())
		assert.Nil(t, validate(t, rule, "a@example.com"))
	})
}

func TestUnique_ContextCancelled(t *testing.T) {
	t.Parallel()

	rule := uniqueness.Unique(uniqueness.NewMemory(), "email")
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	err := rule(ctx, form.NewElement(form.KindInput, "email", form.WithValue("a@b.c")), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend, err := uniqueness.Open(ctx, uniqueness.Config{Backend: uniqueness.BackendMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &uniqueness.Memory{}, backend)

	_, err = uniqueness.Open(ctx, uniqueness.Config{Backend: "etcd"}, nil)
	assert.ErrorIs(t, err, uniqueness.ErrUnknownBackend)
}

func TestRuleFactory(t *testing.T) {
	t.Parallel()

	backend := uniqueness.NewMemory().Seed("accounts", "taken@example.com")
	rules := formdef.DefaultRules().With("unique", uniqueness.RuleFactory(backend))

	t.Run("builds a namespaced rule", func(t *testing.T) {
		rule, err := rules.Build(formdef.RuleSpec{
			Rule:    "unique",
			Message: "This email is already registered.",
			Args:    map[string]string{"namespace": "accounts"},
		})
		require.NoError(t, err)

		ferr := validate(t, rule, "taken@example.com")
		require.NotNil(t, ferr)
		assert.Equal(t, "This email is already registered.", ferr.Message)
	})

	t.Run("onerror pass fails open", func(t *testing.T) {
		rule, err := uniqueness.RuleFactory(failingChecker{err: errors.New("down")})(formdef.RuleSpec{
			Rule: "unique",
			Args: map[string]string{"namespace": "accounts", "onerror": "pass"},
		})
		require.NoError(t, err)
		assert.Nil(t, validate(t, rule, "a@example.com"))
	})

	t.Run("invalid args", func(t *testing.T) {
		_, err := rules.Build(formdef.RuleSpec{Rule: "unique"})
		assert.ErrorIs(t, err, formdef.ErrMissingRuleArg)

		_, err = rules.Build(formdef.RuleSpec{
			Rule: "unique",
			Args: map[string]string{"namespace": "accounts", "onerror": "retry"},
		})
		assert.ErrorIs(t, err, formdef.ErrInvalid)
	})
}

type countingChecker struct {
	calls atomic.Int32
	next  uniqueness.Checker
	err   error
}

func (c *countingChecker) Taken(ctx context.Context, namespace, value string) (bool, error) {
	c.calls.Add(1)
	if c.err != nil {
		return false, c.err
	}
	return c.next.Taken(ctx, namespace, value)
}

func TestCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := uniqueness.NewMemory()
	counter := &countingChecker{next: backend}
	cached := uniqueness.NewCached(counter, time.Minute)

	for range 3 {
		taken, err := cached.Taken(ctx, "accounts", "jane@example.com")
		require.NoError(t, err)
		assert.False(t, taken)
	}
	assert.Equal(t, int32(1), counter.calls.Load())

	require.NoError(t, backend.Reserve(ctx, "accounts", "jane@example.com"))
	taken, _ := cached.Taken(ctx, "accounts", "jane@example.com")
	assert.False(t, taken, "stale until forgotten")

	cached.Forget("accounts", "jane@example.com")
	taken, err := cached.Taken(ctx, "accounts", "jane@example.com")
	require.NoError(t, err)
	assert.True(t, taken)
	assert.Equal(t, int32(2), counter.calls.Load())

	t.Run("errors are not cached", func(t *testing.T) {
		failing := &countingChecker{err: errors.New("down")}
		cached := uniqueness.NewCached(failing, time.Minute)
		for range 2 {
			_, err := cached.Taken(ctx, "accounts", "x")
			assert.Error(t, err)
		}
		assert.Equal(t, int32(2), failing.calls.Load())
	})
}
