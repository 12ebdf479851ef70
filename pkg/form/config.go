package form

import (
	"time"

	"golang.org/x/text/language"
)

// Config holds environment-driven defaults for forms.
type Config struct {
	DefaultDebounce time.Duration `env:"FORM_DEFAULT_DEBOUNCE" envDefault:"0s"` // DefaultDebounce applies to controls without their own debounce.
	StaleGuard      bool          `env:"FORM_STALE_GUARD" envDefault:"false"`   // StaleGuard drops results of superseded validation runs.
	Language        string        `env:"FORM_LANGUAGE" envDefault:"en"`         // Language selects the native message catalog.
}

// NewFromConfig creates a form from cfg. Explicit options are applied last.
func NewFromConfig(cfg Config, opts ...Option) *Form {
	return New(append(cfg.Options(), opts...)...)
}

// Options returns the form options set by cfg.
func (cfg Config) Options() []Option {
	var opts []Option
	if cfg.DefaultDebounce > 0 {
		opts = append(opts, WithDefaultDebounce(cfg.DefaultDebounce))
	}
	if cfg.StaleGuard {
		opts = append(opts, WithStaleGuard(true))
	}
	return opts
}

// Messages returns the native message catalog for cfg.Language.
// Unparsable tags fall back to English.
func (cfg Config) Messages() *Messages {
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		return defaultMessages
	}
	return NewMessages(tag)
}
