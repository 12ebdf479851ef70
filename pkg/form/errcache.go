package form

import "sync"

// Error is a normalized validation error.
// Code is the constraint code of the failure, or "" when none applies.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrorCache interns errors by (code, message) so that identical failures
// share one *Error across revalidations. It only grows.
type ErrorCache struct {
	mu      sync.RWMutex
	entries map[string]*Error
}

func NewErrorCache() *ErrorCache {
	return &ErrorCache{entries: make(map[string]*Error)}
}

// Get returns the cached error for message and code, creating it on first use.
func (c *ErrorCache) Get(message, code string) *Error {
	key := code + "\x00" + message

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.entries[key]; ok {
		return cached
	}
	err := &Error{Message: message, Code: code}
	c.entries[key] = err
	return err
}

// Len returns the number of interned errors.
func (c *ErrorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
