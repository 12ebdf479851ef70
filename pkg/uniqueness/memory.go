package uniqueness

import (
	"context"
	"sync"
)

// Memory is an in-process Backend.
type Memory struct {
	mu     sync.RWMutex
	values map[string]map[string]struct{}
}

// NewMemory creates an empty memory backend.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]map[string]struct{})}
}

// Seed marks values as taken in namespace without normalizing them.
func (m *Memory) Seed(namespace string, values ...string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.values[namespace]
	if !ok {
		set = make(map[string]struct{}, len(values))
		m.values[namespace] = set
	}
	for _, v := range values {
		set[v] = struct{}{}
	}
	return m
}

func (m *Memory) Taken(ctx context.Context, namespace, value string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[namespace][value]
	return ok, nil
}

func (m *Memory) Reserve(ctx context.Context, namespace, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.values[namespace]
	if !ok {
		set = make(map[string]struct{})
		m.values[namespace] = set
	}
	if _, ok := set[value]; ok {
		return ErrTaken
	}
	set[value] = struct{}{}
	return nil
}

func (m *Memory) Healthcheck(context.Context) error { return nil }
func (m *Memory) Close(context.Context) error       { return nil }
