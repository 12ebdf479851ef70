package form

import "sync"

// State is the observable validation state of a field.
// Valid and Invalid are nil until the first validation pass.
type State struct {
	Error     *Error
	Valid     *bool
	Invalid   *bool
	Validated bool
}

// IsValid reports whether the field was validated and passed.
func (s State) IsValid() bool {
	return s.Valid != nil && *s.Valid
}

// IsInvalid reports whether the field was validated and failed.
func (s State) IsInvalid() bool {
	return s.Invalid != nil && *s.Invalid
}

// StateUpdater receives the outcome of a validation pass: nil for success.
type StateUpdater func(err *Error)

// FieldState holds the State of one field (or of a group of fields sharing
// it) and notifies subscribers when it changes.
type FieldState struct {
	emit sync.Mutex
	mu   sync.RWMutex

	lc     lifecycle
	state  State
	subs   map[int]func(State)
	nextID int
}

func NewFieldState() *FieldState {
	return &FieldState{
		lc:   newLifecycle(),
		subs: make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state.
func (s *FieldState) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Validated reports whether at least one validation pass completed.
func (s *FieldState) Validated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lc.validated()
}

// Update records a validation outcome. Subscribers are called only when the
// state changed; an interned *Error equal by identity is no change.
// Subscribers must not call Update.
func (s *FieldState) Update(err *Error) {
	s.emit.Lock()
	defer s.emit.Unlock()

	valid := err == nil
	o := outcomeFail
	if valid {
		o = outcomePass
	}

	s.mu.Lock()
	prev := s.state
	if fireErr := s.lc.fire(o); fireErr != nil {
		s.mu.Unlock()
		return
	}
	invalid := !valid
	next := State{
		Error:     err,
		Valid:     &valid,
		Invalid:   &invalid,
		Validated: s.lc.validated(),
	}
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if prev.Validated && prev.Error == err && prev.IsValid() == valid {
		return
	}
	for _, fn := range subs {
		fn(next)
	}
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (s *FieldState) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
