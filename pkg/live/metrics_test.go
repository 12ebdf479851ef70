package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/formdef"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	def, err := formdef.Parse([]byte(`
name: newsletter
fields:
  - name: email
    type: email
    required: true
    blur: true
`))
	require.NoError(t, err)

	m := NewMetrics(prometheus.NewRegistry())
	h := NewHandler(def, formdef.DefaultRules(),
		WithMetrics(m),
		WithFormOptions(form.WithDefaultDebounce(-1)),
	)
	sess, err := h.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessions))

	routes := h.Handle()
	for _, body := range []string{
		`{"field":"email","event":"focus","value":""}`,
		`{"field":"email","event":"blur","value":""}`,
		`{"field":"email","event":"hover"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/"+sess.ID.String()+"/events", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		routes.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("newsletter", "blur")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.events.WithLabelValues("newsletter", "hover")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues("newsletter", "email", "valueMissing")))

	req := httptest.NewRequest(http.MethodPost, "/"+sess.ID.String()+"/submit",
		strings.NewReader(`{"values":{"email":"jane@example.com"}}`))
	req.Header.Set("Content-Type", "application/json")
	routes.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("newsletter", ResultSubmitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues("newsletter", "email", "valid")))

	h.Store().Delete(sess.ID)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.sessions))
}

func TestMetrics_Nil(t *testing.T) {
	t.Parallel()
	var m *Metrics
	assert.NotPanics(t, func() {
		m.sessionOpened()
		m.sessionClosed()
		m.event("f", form.EventBlur)
		m.state("f", "x", form.State{})
		m.submission("f", ResultInvalid)
	})
}
