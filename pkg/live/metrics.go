package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/formguard/pkg/form"
)

const metricsNamespace = "formguard"

// Submission results recorded by Metrics.
const (
	ResultSubmitted = "submitted"
	ResultInvalid   = "invalid"
	ResultFailed    = "failed"
)

// Metrics are the Prometheus collectors of a live handler. A nil *Metrics
// records nothing.
type Metrics struct {
	sessions    prometheus.Gauge
	events      *prometheus.CounterVec
	validations *prometheus.CounterVec
	submissions *prometheus.CounterVec
}

// NewMetrics registers the live form collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "live",
			Name:      "sessions",
			Help:      "Number of mounted form sessions",
		}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "live",
			Name:      "events_total",
			Help:      "Field events received, by form and event type",
		}, []string{"form", "event"}),
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "live",
			Name:      "field_states_total",
			Help:      "Field state changes, by form, field and failure code",
		}, []string{"form", "field", "code"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "live",
			Name:      "submissions_total",
			Help:      "Submissions, by form and result",
		}, []string{"form", "result"}),
	}
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

func (m *Metrics) event(formName string, event form.EventType) {
	if m != nil {
		m.events.WithLabelValues(formName, string(event)).Inc()
	}
}

// state records a state change; valid fields are counted under code "valid".
func (m *Metrics) state(formName, field string, st form.State) {
	if m == nil {
		return
	}
	code := "valid"
	if st.Error != nil {
		code = st.Error.Code
	}
	m.validations.WithLabelValues(formName, field, code).Inc()
}

func (m *Metrics) submission(formName, result string) {
	if m != nil {
		m.submissions.WithLabelValues(formName, result).Inc()
	}
}
