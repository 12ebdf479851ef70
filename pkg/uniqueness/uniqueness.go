package uniqueness

import (
	"context"
	"strings"
)

// Checker reports whether value is taken in namespace.
type Checker interface {
	Taken(ctx context.Context, namespace, value string) (bool, error)
}

// Backend is a Checker that can also claim values.
type Backend interface {
	Checker
	// Reserve claims value in namespace, returning ErrTaken when it is
	// already claimed.
	Reserve(ctx context.Context, namespace, value string) error
	Healthcheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// Normalize is the default value normalization: surrounding whitespace is
// trimmed and letters are lowercased.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
