package form

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Details is what a field registers with: its rules in evaluation order,
// the identities of other fields validated alongside it, and the updater of
// its State.
type Details struct {
	Rules  []Rule
	Other  []string
	Update StateUpdater
}

type entry struct {
	field   Field
	details Details
	// seq numbers validation runs for the stale-result guard.
	seq atomic.Uint64
}

// Registry tracks mounted fields by identity, in registration order.
// Registering an identity that is already present replaces the entry in
// place; the last registration wins.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

func (r *Registry) Register(f Field, d Details) {
	id := Identity(f)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		r.order = append(r.order, id)
	}
	r.entries[id] = &entry{field: f, details: d}
}

func (r *Registry) Unregister(f Field) {
	id := Identity(f)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// Lookup resolves an identity to the live field. When no identity matches,
// the first field whose name equals key is returned.
func (r *Registry) Lookup(key string) Field {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[key]; ok {
		return e.field
	}
	for _, id := range r.order {
		if f := r.entries[id].field; f.Name() == key {
			return f
		}
	}
	return nil
}

// LookupField resolves a field-like value to the live registered field.
func (r *Registry) LookupField(f Field) Field {
	if f == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[Identity(f)]; ok {
		return e.field
	}
	return nil
}

// Fields returns a snapshot of the registered fields in registration order.
func (r *Registry) Fields() []Field {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields := make([]Field, 0, len(r.order))
	for _, id := range r.order {
		fields = append(fields, r.entries[id].field)
	}
	return fields
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}
