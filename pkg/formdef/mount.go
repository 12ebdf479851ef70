package formdef

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/formguard/pkg/form"
)

// FormOptions returns the form options carried by the definition.
func (d *Definition) FormOptions() []form.Option {
	opts := []form.Option{}
	if d.Name != "" {
		opts = append(opts, form.WithName(d.Name))
	}
	if d.Debounce != 0 {
		opts = append(opts, form.WithDefaultDebounce(time.Duration(d.Debounce)))
	}
	return opts
}

// Element builds the host element of fd. m may be nil for English messages.
func (fd FieldDef) Element(m *form.Messages) *form.Element {
	kind := fd.Kind
	if kind == "" {
		kind = form.KindInput
	}
	return form.NewElement(kind, fd.Name,
		form.WithID(fd.ID),
		form.WithValue(fd.Value),
		form.WithConstraints(form.Constraints{
			Required:  fd.Required,
			Type:      fd.Type,
			Pattern:   fd.Pattern,
			MinLength: fd.MinLength,
			MaxLength: fd.MaxLength,
			Min:       fd.Min,
			Max:       fd.Max,
			Step:      fd.Step,
		}),
		form.WithMessages(m),
	)
}

// Options builds the control options of fd, resolving its validations.
func (fd FieldDef) Options(rules Rules) (form.Options, error) {
	specs := fd.Rules()
	built := make([]form.Rule, 0, len(specs))
	for _, spec := range specs {
		r, err := rules.Build(spec)
		if err != nil {
			return form.Options{}, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		built = append(built, r)
	}

	return form.Options{
		Behavior: form.Behavior{
			Blur:     fd.Blur,
			Change:   fd.Change,
			Click:    fd.Click,
			Recheck:  fd.Recheck,
			Debounce: time.Duration(fd.Debounce),
		},
		Other: fd.Other,
		Rules: built,
	}, nil
}

type mountConfig struct {
	messages *form.Messages
	onState  func(fd FieldDef, st form.State)
}

// MountOption configures Mount.
type MountOption func(*mountConfig)

// WithMessages sets the native message catalog of mounted elements.
func WithMessages(m *form.Messages) MountOption {
	return func(c *mountConfig) { c.messages = m }
}

// WithStateHandler subscribes fn to the state of every mounted field.
func WithStateHandler(fn func(fd FieldDef, st form.State)) MountOption {
	return func(c *mountConfig) { c.onState = fn }
}

// Mounted is a definition bound to a form.
type Mounted struct {
	Definition *Definition
	Form       *form.Form

	elements map[string]*form.Element
	controls map[string]*form.Control
}

// Mount creates and binds every field of d on f, in declaration order.
// On error, fields bound so far are closed.
func (d *Definition) Mount(ctx context.Context, f *form.Form, rules Rules, opts ...MountOption) (*Mounted, error) {
	if f == nil {
		return nil, form.ErrNoForm
	}
	var cfg mountConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Mounted{
		Definition: d,
		Form:       f,
		elements:   make(map[string]*form.Element, len(d.Fields)),
		controls:   make(map[string]*form.Control, len(d.Fields)),
	}
	for _, fd := range d.Fields {
		options, err := fd.Options(rules)
		if err != nil {
			m.Close()
			return nil, err
		}
		if cfg.onState != nil {
			options.OnState = func(st form.State) { cfg.onState(fd, st) }
		}

		el := fd.Element(cfg.messages)
		c, err := form.Bind(ctx, f, el, options)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("field %q: %w", fd.Name, err)
		}
		m.elements[fd.Identity()] = el
		m.controls[fd.Identity()] = c
	}
	return m, nil
}

// Element returns the element with the given identity or name.
func (m *Mounted) Element(key string) *form.Element {
	if fd := m.Definition.Field(key); fd != nil {
		return m.elements[fd.Identity()]
	}
	return nil
}

// Control returns the control with the given identity or name.
func (m *Mounted) Control(key string) *form.Control {
	if fd := m.Definition.Field(key); fd != nil {
		return m.controls[fd.Identity()]
	}
	return nil
}

// Close closes every bound control.
func (m *Mounted) Close() {
	for _, c := range m.controls {
		c.Close()
	}
}
