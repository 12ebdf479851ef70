package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/formdef"
	"github.com/dmitrymomot/formguard/pkg/logger"
)

// Values are the submitted field values keyed by field name.
type Values map[string]string

// SubmitHandler receives the values of a fully valid submission. A returned
// *form.Error is shown to the user; other errors show a generic message.
type SubmitHandler func(ctx context.Context, values Values) error

const (
	msgSubmitted = "Submitted."
	msgInvalid   = "Please fix the highlighted fields."
	msgFailed    = "Submission failed. Please try again."
)

// Handler serves one form definition as a live, server-validated form.
// Each page load mounts a fresh session; browser events are posted back and
// answered with element patches over SSE.
type Handler struct {
	def       *formdef.Definition
	rules     formdef.Rules
	store     *Store
	views     Views
	logger    *slog.Logger
	formOpts  []form.Option
	messages  *form.Messages
	onSubmit  SubmitHandler
	basePath  string
	scriptURL string
	buffer    int
	metrics   *Metrics
}

// Option configures a Handler.
type Option func(*Handler)

// WithStore sets the session store. Defaults to a store without expiry.
func WithStore(s *Store) Option {
	return func(h *Handler) {
		if s != nil {
			h.store = s
		}
	}
}

// WithViews overrides the rendered views.
func WithViews(v Views) Option {
	return func(h *Handler) { h.views = v.withDefaults() }
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithFormOptions adds defaults to every mounted form. Settings carried by
// the definition take precedence.
func WithFormOptions(opts ...form.Option) Option {
	return func(h *Handler) { h.formOpts = append(h.formOpts, opts...) }
}

// WithMessages sets the native message catalog of mounted fields.
func WithMessages(m *form.Messages) Option {
	return func(h *Handler) { h.messages = m }
}

// WithSubmitHandler sets the callback run after a fully valid submission.
func WithSubmitHandler(fn SubmitHandler) Option {
	return func(h *Handler) { h.onSubmit = fn }
}

// WithBasePath sets the path the handler is mounted under, used to build
// the URLs posted to by the browser.
func WithBasePath(path string) Option {
	return func(h *Handler) { h.basePath = path }
}

// WithScriptURL sets the datastar client bundle URL.
func WithScriptURL(url string) Option {
	return func(h *Handler) { h.scriptURL = url }
}

// WithMetrics records sessions, events, field states and submissions.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithUpdateBuffer sets the per-stream update buffer.
func WithUpdateBuffer(n int) Option {
	return func(h *Handler) { h.buffer = n }
}

// NewHandler creates a handler serving def with the given rule factories.
func NewHandler(def *formdef.Definition, rules formdef.Rules, opts ...Option) *Handler {
	h := &Handler{
		def:    def,
		rules:  rules,
		store:  NewStore(0),
		views:  DefaultViews(),
		logger: slog.New(slog.DiscardHandler),
		buffer: 32,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Store returns the session store.
func (h *Handler) Store() *Store {
	return h.store
}

// Handle returns the handler's routes.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.open)
	r.Route("/{session}", func(r chi.Router) {
		r.Post("/events", h.event)
		r.Post("/submit", h.submit)
		r.Get("/stream", h.stream)
		r.Delete("/", h.close)
	})
	return r
}

// Open mounts a new session of the form.
func (h *Handler) Open(ctx context.Context) (*Session, error) {
	formOpts := append([]form.Option{form.WithLogger(h.logger)}, h.formOpts...)
	formOpts = append(formOpts, h.def.FormOptions()...)
	formOpts = append(formOpts, form.WithOnSubmit(h.submitted))

	sess := newSession(form.New(formOpts...), h.buffer)
	mounted, err := h.def.Mount(ctx, sess.Form, h.rules,
		formdef.WithMessages(h.messages),
		formdef.WithStateHandler(func(fd formdef.FieldDef, st form.State) {
			h.metrics.state(h.def.Name, fd.Name, st)
			sess.publish(fd, st)
		}),
	)
	if err != nil {
		sess.Close()
		return nil, err
	}
	sess.Mounted = mounted
	sess.onClose = h.metrics.sessionClosed
	h.metrics.sessionOpened()
	h.store.Put(sess)

	h.logger.DebugContext(ctx, "form session opened",
		logger.Form(h.def.Name), logger.Session(sess.ID.String()))
	return sess, nil
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Open(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to mount form", logger.Form(h.def.Name), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params := PageParams{
		Definition:  h.def,
		SessionPath: h.sessionPath(sess),
		ScriptURL:   h.scriptURL,
	}
	for _, g := range h.groups(sess, h.def.Fields...) {
		params.Groups = append(params.Groups, h.views.Group(g))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Page(params).Render(r.Context(), w); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render form", logger.Error(err))
	}
}

type eventSignals struct {
	Field string  `json:"field"`
	Event string  `json:"event"`
	Value *string `json:"value"`
}

func (h *Handler) event(w http.ResponseWriter, r *http.Request) {
	sess, ctx, ok := h.session(w, r)
	if !ok {
		return
	}

	var signals eventSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "invalid signals", http.StatusBadRequest)
		return
	}
	fd := h.def.Field(signals.Field)
	if fd == nil {
		http.Error(w, "unknown field", http.StatusNotFound)
		return
	}
	control := sess.Mounted.Control(fd.Identity())
	if signals.Value != nil {
		sess.Mounted.Element(fd.Identity()).SetValue(*signals.Value)
	}

	err := control.Dispatch(ctx, form.Event{Type: form.EventType(signals.Event)})
	switch {
	case errors.Is(err, form.ErrUnknownEvent):
		http.Error(w, "unknown event", http.StatusBadRequest)
		return
	case errors.Is(err, form.ErrControlClosed):
		http.Error(w, "session closed", http.StatusGone)
		return
	case err != nil && ctx.Err() != nil:
		return
	case err != nil:
		h.logger.WarnContext(ctx, "field event failed",
			logger.Field(fd.Identity()), logger.Event(signals.Event), logger.Error(err))
	}
	h.metrics.event(h.def.Name, form.EventType(signals.Event))

	fields := []formdef.FieldDef{*fd}
	for _, other := range fd.Other {
		if dep := h.def.Field(other); dep != nil {
			fields = append(fields, *dep)
		}
	}

	sse := datastar.NewSSE(w, r)
	if err := h.patchGroups(sse, sess, fields...); err != nil {
		h.logger.DebugContext(ctx, "failed to patch field groups", logger.Error(err))
	}
}

type submitSignals struct {
	Values Values `json:"values"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	sess, ctx, ok := h.session(w, r)
	if !ok {
		return
	}

	var signals submitSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "invalid signals", http.StatusBadRequest)
		return
	}
	for name, value := range signals.Values {
		if el := sess.Mounted.Element(name); el != nil {
			el.SetValue(value)
		}
	}

	ok, err := sess.Form.Submit(ctx, &form.SubmitEvent{Data: signals.Values})
	if err != nil && ctx.Err() != nil {
		return
	}

	result := ResultParams{Submitted: true, OK: ok && err == nil}
	var ferr *form.Error
	switch {
	case !ok:
		result.Message = msgInvalid
		h.metrics.submission(h.def.Name, ResultInvalid)
	case errors.As(err, &ferr):
		result.Message = ferr.Message
		h.metrics.submission(h.def.Name, ResultFailed)
	case err != nil:
		result.Message = msgFailed
		h.metrics.submission(h.def.Name, ResultFailed)
	default:
		result.Message = msgSubmitted
		h.metrics.submission(h.def.Name, ResultSubmitted)
	}

	sse := datastar.NewSSE(w, r)
	if err := h.patchGroups(sse, sess, h.def.Fields...); err != nil {
		h.logger.DebugContext(ctx, "failed to patch field groups", logger.Error(err))
		return
	}
	if err := sse.PatchElementTempl(h.views.Result(result)); err != nil {
		h.logger.DebugContext(ctx, "failed to patch submit result", logger.Error(err))
	}
}

func (h *Handler) submitted(ctx context.Context, e *form.SubmitEvent) error {
	if h.onSubmit == nil {
		return nil
	}
	values, _ := e.Data.(Values)
	return h.onSubmit(ctx, values)
}

// stateSignals mirror a field's state for client-side bindings.
type stateSignals struct {
	Validated bool   `json:"validated"`
	Valid     bool   `json:"valid"`
	Invalid   bool   `json:"invalid"`
	Error     string `json:"error"`
	Code      string `json:"code"`
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	sess, ctx, ok := h.session(w, r)
	if !ok {
		return
	}

	updates := sess.Updates(ctx)
	sse := datastar.NewSSE(w, r)
	started := time.Now()
	h.logger.DebugContext(ctx, "form stream opened")

	for upd := range updates {
		group := h.views.Group(GroupParams{
			Field:       upd.Field,
			SessionPath: h.sessionPath(sess),
			Value:       sess.Mounted.Element(upd.Field.Identity()).Value(),
			State:       upd.State,
		})
		if err := sse.PatchElementTempl(group); err != nil {
			break
		}

		data, err := json.Marshal(map[string]any{
			"fields": map[string]stateSignals{upd.Field.Name: newStateSignals(upd.State)},
		})
		if err != nil {
			continue
		}
		if err := sse.PatchSignals(data); err != nil {
			break
		}
	}
	h.logger.DebugContext(ctx, "form stream closed", logger.Duration(time.Since(started)))
}

func newStateSignals(st form.State) stateSignals {
	s := stateSignals{
		Validated: st.Validated,
		Valid:     st.IsValid(),
		Invalid:   st.IsInvalid(),
	}
	if st.Error != nil {
		s.Error = st.Error.Message
		s.Code = st.Error.Code
	}
	return s
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "session"))
	if err != nil || !h.store.Delete(id) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	h.logger.DebugContext(logger.WithSessionID(r.Context(), id.String()), "form session closed")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, context.Context, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "session"))
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, nil, false
	}
	sess, ok := h.store.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, nil, false
	}
	return sess, logger.WithSessionID(r.Context(), id.String()), true
}

func (h *Handler) sessionPath(sess *Session) string {
	return h.basePath + "/" + sess.ID.String()
}

func (h *Handler) groups(sess *Session, fields ...formdef.FieldDef) []GroupParams {
	groups := make([]GroupParams, 0, len(fields))
	for _, fd := range fields {
		control := sess.Mounted.Control(fd.Identity())
		groups = append(groups, GroupParams{
			Field:       fd,
			SessionPath: h.sessionPath(sess),
			Value:       sess.Mounted.Element(fd.Identity()).Value(),
			State:       control.State(),
		})
	}
	return groups
}

func (h *Handler) patchGroups(sse *datastar.ServerSentEventGenerator, sess *Session, fields ...formdef.FieldDef) error {
	for _, g := range h.groups(sess, fields...) {
		if err := sse.PatchElementTempl(h.views.Group(g)); err != nil {
			return err
		}
	}
	return nil
}
