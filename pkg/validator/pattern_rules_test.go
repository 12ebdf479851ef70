package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

func TestCompilePattern(t *testing.T) {
	t.Run("anchors the expression", func(t *testing.T) {
		re, err := validator.CompilePattern("[a-z]+")
		require.NoError(t, err)
		assert.True(t, re.MatchString("abc"))
		assert.False(t, re.MatchString("abc1"))
	})

	t.Run("reuses compiled patterns", func(t *testing.T) {
		a, err := validator.CompilePattern("[0-9]{3}")
		require.NoError(t, err)
		b, err := validator.CompilePattern("[0-9]{3}")
		require.NoError(t, err)
		assert.Same(t, a, b)
	})

	t.Run("reports invalid patterns", func(t *testing.T) {
		_, err := validator.CompilePattern("[")
		assert.ErrorIs(t, err, validator.ErrInvalidPattern)
	})
}

func TestMatchesPattern(t *testing.T) {
	t.Run("passes matching value", func(t *testing.T) {
		rule := validator.MatchesPattern("zip", "12345", "[0-9]{5}")
		assert.True(t, rule.Check())
		assert.Equal(t, validator.CodePatternMismatch, rule.Error.ConstraintCode)
	})

	t.Run("fails partial match", func(t *testing.T) {
		assert.False(t, validator.MatchesPattern("zip", "123456", "[0-9]{5}").Check())
	})

	t.Run("passes empty value", func(t *testing.T) {
		assert.True(t, validator.MatchesPattern("zip", "", "[0-9]{5}").Check())
	})

	t.Run("ignores invalid pattern", func(t *testing.T) {
		assert.True(t, validator.MatchesPattern("zip", "1", "[").Check())
	})
}

func TestMatchesRegex(t *testing.T) {
	rule := validator.MatchesRegex("code", "ab-12", `\d+`, "digits")
	assert.True(t, rule.Check())
	assert.Equal(t, "must match digits pattern", rule.Error.Message)
	assert.False(t, validator.MatchesRegex("code", "ab", `\d+`, "digits").Check())
}
