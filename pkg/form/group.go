package form

import (
	"context"
	"sync"
)

// Group binds several fields that share one FieldState, such as a set of
// radio buttons or a compound input. The group's Options are defaults:
// rules, other identities, handlers and debounce set on a field replace
// them. A trigger is on when either side enables it, unless the field lists
// it in Disable.
type Group struct {
	form     *Form
	defaults Options
	state    *FieldState

	mu       sync.Mutex
	controls []*Control
}

// NewGroup creates a group on f. A State in defaults is used as the shared
// state; otherwise a new one is created.
func NewGroup(f *Form, defaults Options) *Group {
	state := defaults.State
	if state == nil {
		state = NewFieldState()
	}
	return &Group{form: f, defaults: defaults, state: state}
}

// Bind binds field into the group.
func (g *Group) Bind(ctx context.Context, field Field, opts Options) (*Control, error) {
	c, err := Bind(ctx, g.form, field, g.merge(opts))
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.controls = append(g.controls, c)
	g.mu.Unlock()
	return c, nil
}

func (g *Group) FieldState() *FieldState { return g.state }
func (g *Group) State() State            { return g.state.State() }

// Subscribe registers fn for changes of the shared state.
func (g *Group) Subscribe(fn func(State)) (unsubscribe func()) {
	return g.state.Subscribe(fn)
}

// Controls returns the controls bound through the group.
func (g *Group) Controls() []*Control {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Control, len(g.controls))
	copy(out, g.controls)
	return out
}

// Close closes every control of the group.
func (g *Group) Close() {
	g.mu.Lock()
	controls := g.controls
	g.controls = nil
	g.mu.Unlock()

	for _, c := range controls {
		c.Close()
	}
}

func (g *Group) merge(opts Options) Options {
	d := g.defaults
	out := opts

	out.Blur = (opts.Blur || d.Blur) && !opts.Disable.Blur
	out.Change = (opts.Change || d.Change) && !opts.Disable.Change
	out.Click = (opts.Click || d.Click) && !opts.Disable.Click
	out.Recheck = (opts.Recheck || d.Recheck) && !opts.Disable.Recheck
	if opts.Debounce == 0 {
		out.Debounce = d.Debounce
	}
	if len(opts.Rules) == 0 {
		out.Rules = d.Rules
	}
	if len(opts.Other) == 0 {
		out.Other = d.Other
	}
	if opts.OnFocus == nil {
		out.OnFocus = d.OnFocus
	}
	if opts.OnBlur == nil {
		out.OnBlur = d.OnBlur
	}
	if opts.OnChange == nil {
		out.OnChange = d.OnChange
	}
	if opts.OnClick == nil {
		out.OnClick = d.OnClick
	}
	// subscribed once through Group.Subscribe, not per control
	out.OnState = opts.OnState
	out.State = g.state
	return out
}
