package live

import (
	"time"

	"github.com/dmitrymomot/formguard/pkg/formdef"
)

// Config is the environment-driven configuration of a live handler.
type Config struct {
	BasePath      string        `env:"LIVE_BASE_PATH" envDefault:"/form"`
	ScriptURL     string        `env:"LIVE_SCRIPT_URL"`
	SessionTTL    time.Duration `env:"LIVE_SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"LIVE_SWEEP_INTERVAL" envDefault:"1m"`
	UpdateBuffer  int           `env:"LIVE_UPDATE_BUFFER" envDefault:"32"`
}

// NewFromConfig creates a handler whose store expires sessions after
// cfg.SessionTTL. Explicit options are applied last. The caller runs the
// store's sweeper with cfg.SweepInterval.
func NewFromConfig(def *formdef.Definition, rules formdef.Rules, cfg Config, opts ...Option) *Handler {
	configOpts := []Option{
		WithStore(NewStore(cfg.SessionTTL)),
		WithBasePath(cfg.BasePath),
	}
	if cfg.ScriptURL != "" {
		configOpts = append(configOpts, WithScriptURL(cfg.ScriptURL))
	}
	if cfg.UpdateBuffer > 0 {
		configOpts = append(configOpts, WithUpdateBuffer(cfg.UpdateBuffer))
	}
	return NewHandler(def, rules, append(configOpts, opts...)...)
}
