package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/form"
)

func TestFieldState(t *testing.T) {
	t.Parallel()

	t.Run("pending until first update", func(t *testing.T) {
		s := form.NewFieldState()
		st := s.State()
		assert.Nil(t, st.Error)
		assert.Nil(t, st.Valid)
		assert.Nil(t, st.Invalid)
		assert.False(t, st.Validated)
		assert.False(t, st.IsValid())
		assert.False(t, st.IsInvalid())
	})

	t.Run("valid is the negation of invalid", func(t *testing.T) {
		s := form.NewFieldState()
		errs := form.NewErrorCache()

		for _, err := range []*form.Error{nil, errs.Get("bad", "customError"), nil} {
			s.Update(err)
			st := s.State()
			require.NotNil(t, st.Valid)
			require.NotNil(t, st.Invalid)
			assert.Equal(t, !*st.Invalid, *st.Valid)
			assert.Equal(t, err == nil, *st.Valid)
			assert.Same(t, err, st.Error)
		}
	})

	t.Run("validated is monotonic", func(t *testing.T) {
		s := form.NewFieldState()
		s.Update(nil)
		assert.True(t, s.Validated())
		s.Update(&form.Error{Message: "x"})
		assert.True(t, s.Validated())
		s.Update(nil)
		assert.True(t, s.State().Validated)
	})

	t.Run("subscribers see changes only", func(t *testing.T) {
		s := form.NewFieldState()
		errs := form.NewErrorCache()
		var seen []form.State
		unsubscribe := s.Subscribe(func(st form.State) { seen = append(seen, st) })

		taken := errs.Get("taken", "customError")
		s.Update(taken)
		s.Update(errs.Get("taken", "customError"))
		s.Update(nil)
		s.Update(nil)
		require.Len(t, seen, 2)
		assert.Same(t, taken, seen[0].Error)
		assert.True(t, seen[1].IsValid())

		unsubscribe()
		unsubscribe()
		s.Update(taken)
		assert.Len(t, seen, 2)
	})

	t.Run("nil subscriber", func(t *testing.T) {
		s := form.NewFieldState()
		assert.NotPanics(t, func() { s.Subscribe(nil)() })
	})
}
