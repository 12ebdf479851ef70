package uniqueness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/formdef"
	"github.com/dmitrymomot/formguard/pkg/logger"
)

const (
	DefaultTakenMessage       = "This value is already taken."
	DefaultUnavailableMessage = "We could not check this value. Please try again."
)

type ruleConfig struct {
	taken       string
	unavailable string
	failOpen    bool
	normalize   func(string) string
	logger      *slog.Logger
}

// RuleOption configures Unique.
type RuleOption func(*ruleConfig)

// WithMessage sets the failure message for taken values.
func WithMessage(msg string) RuleOption {
	return func(c *ruleConfig) {
		if msg != "" {
			c.taken = msg
		}
	}
}

// WithUnavailableMessage sets the failure message used when the backend
// returns an error.
func WithUnavailableMessage(msg string) RuleOption {
	return func(c *ruleConfig) {
		if msg != "" {
			c.unavailable = msg
		}
	}
}

// WithFailOpen lets values pass when the backend returns an error.
func WithFailOpen() RuleOption {
	return func(c *ruleConfig) { c.failOpen = true }
}

// WithNormalizer replaces Normalize. Nil disables normalization.
func WithNormalizer(fn func(string) string) RuleOption {
	return func(c *ruleConfig) {
		if fn == nil {
			fn = func(s string) string { return s }
		}
		c.normalize = fn
	}
}

func WithLogger(l *slog.Logger) RuleOption {
	return func(c *ruleConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Unique returns an asynchronous rule failing when the field's value is
// taken in namespace. Empty values pass; required-ness is a native
// constraint.
func Unique(c Checker, namespace string, opts ...RuleOption) form.AsyncFunc {
	cfg := ruleConfig{
		taken:       DefaultTakenMessage,
		unavailable: DefaultUnavailableMessage,
		normalize:   Normalize,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(ctx context.Context, field form.Field, _ []form.Field) error {
		value := cfg.normalize(field.Value())
		if value == "" {
			return nil
		}

		taken, err := c.Taken(ctx, namespace, value)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			cfg.logger.WarnContext(ctx, "uniqueness check failed",
				logger.Field(form.Identity(field)),
				slog.String("namespace", namespace),
				logger.Error(err),
			)
			if cfg.failOpen {
				return nil
			}
			return errors.New(cfg.unavailable)
		}
		if taken {
			return errors.New(cfg.taken)
		}
		return nil
	}
}

// RuleFactory builds "unique" rules for form definitions:
//
//	validations:
//	  - rule: unique
//	    message: This email is already registered.
//	    args: {namespace: accounts, onerror: pass}
//
// namespace is required. onerror: pass fails open when c is unavailable.
func RuleFactory(c Checker, opts ...RuleOption) formdef.RuleFactory {
	return func(spec formdef.RuleSpec) (form.Rule, error) {
		namespace, err := spec.Arg("namespace")
		if err != nil {
			return nil, err
		}
		ruleOpts := slices.Clone(opts)
		if spec.Message != "" {
			ruleOpts = append(ruleOpts, WithMessage(spec.Message))
		}
		switch spec.Args["onerror"] {
		case "", "fail":
		case "pass":
			ruleOpts = append(ruleOpts, WithFailOpen())
		default:
			return nil, fmt.Errorf("%w: unique onerror %q", formdef.ErrInvalid, spec.Args["onerror"])
		}
		return Unique(c, namespace, ruleOpts...), nil
	}
}
