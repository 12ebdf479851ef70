package live_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/formdef"
	"github.com/dmitrymomot/formguard/pkg/live"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestGroup(t *testing.T) {
	t.Parallel()

	valid, invalid := true, false
	email := formdef.FieldDef{Name: "email", ID: "signup-email", Label: "Email", Type: form.TypeEmail, Required: true}

	t.Run("pristine", func(t *testing.T) {
		t.Parallel()
		html := render(t, live.Group(live.GroupParams{Field: email, SessionPath: "/s/1", Value: "a<b"}))

		assert.Contains(t, html, `id="group-signup-email" class="form-group"`)
		assert.Contains(t, html, `class="form-control"`)
		assert.Contains(t, html, `value="a&lt;b"`)
		assert.Contains(t, html, ` required`)
		assert.Contains(t, html, `/s/1/events`)
		assert.NotContains(t, html, "was-validated")
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		st := form.State{
			Validated: true,
			Valid:     &invalid,
			Invalid:   &valid,
			Error:     &form.Error{Code: "valueMissing", Message: "Please fill out this field."},
		}
		html := render(t, live.Group(live.GroupParams{Field: email, State: st}))

		assert.Contains(t, html, "form-group was-validated")
		assert.Contains(t, html, "form-control is-invalid")
		assert.Contains(t, html, `aria-invalid="true"`)
		assert.Contains(t, html, `<div id="signup-email-feedback" class="invalid-feedback">Please fill out this field.</div>`)
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		st := form.State{Validated: true, Valid: &valid, Invalid: &invalid}
		html := render(t, live.Group(live.GroupParams{Field: email, State: st}))
		assert.Contains(t, html, "form-control is-valid")
	})

	t.Run("password value is not rendered", func(t *testing.T) {
		t.Parallel()
		pw := formdef.FieldDef{Name: "password", Type: form.TypePassword}
		html := render(t, live.Group(live.GroupParams{Field: pw, Value: "secret"}))
		assert.NotContains(t, html, "secret")
	})

	t.Run("select marks the chosen option", func(t *testing.T) {
		t.Parallel()
		plan := formdef.FieldDef{
			Name:    "plan",
			Kind:    form.KindSelect,
			Choices: []formdef.Choice{{Value: "free", Label: "Free"}, {Value: "pro"}},
		}
		html := render(t, live.Group(live.GroupParams{Field: plan, Value: "pro"}))
		assert.Contains(t, html, `<option value="free">Free</option>`)
		assert.Contains(t, html, `<option value="pro" selected>pro</option>`)
		assert.Contains(t, html, `data-on-change=`)
	})
}

func TestResult(t *testing.T) {
	t.Parallel()

	assert.Contains(t, render(t, live.Result(live.ResultParams{})), `id="form-result" class="form-result"`)
	html := render(t, live.Result(live.ResultParams{Submitted: true, OK: true, Message: "Submitted."}))
	assert.Contains(t, html, "alert-success")
	assert.Contains(t, html, "Submitted.")
}
