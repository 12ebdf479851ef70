package form

import "sync"

// TouchTracker records which field names received a focus event.
type TouchTracker struct {
	mu      sync.RWMutex
	touched map[string]bool
}

func NewTouchTracker() *TouchTracker {
	return &TouchTracker{touched: make(map[string]bool)}
}

func (t *TouchTracker) Touch(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touched[name] = true
}

func (t *TouchTracker) Touched(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.touched[name]
}

// Forget resets name to untouched.
func (t *TouchTracker) Forget(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.touched, name)
}
