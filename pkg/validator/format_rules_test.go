package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last@sub.example.org", "a+tag@example.io", ""}
	for _, email := range valid {
		t.Run("accepts "+email, func(t *testing.T) {
			assert.True(t, validator.ValidEmail("email", email).Check())
		})
	}

	invalid := []string{"plain", "user@", "@example.com", "user@example.", "user@.example.com", "John <john@example.com>", "user@exa..mple.com"}
	for _, email := range invalid {
		t.Run("rejects "+email, func(t *testing.T) {
			rule := validator.ValidEmail("email", email)
			assert.False(t, rule.Check())
			assert.Equal(t, validator.CodeTypeMismatch, rule.Error.ConstraintCode)
		})
	}
}

func TestValidURL(t *testing.T) {
	assert.True(t, validator.ValidURL("site", "https://example.com/path").Check())
	assert.True(t, validator.ValidURL("site", "mailto:user@example.com").Check())
	assert.True(t, validator.ValidURL("site", "").Check())
	assert.False(t, validator.ValidURL("site", "example.com").Check())
	assert.False(t, validator.ValidURL("site", "://missing").Check())
}
