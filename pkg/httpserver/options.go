package httpserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
)

type settings struct {
	Config
	server  *http.Server
	logger  *slog.Logger
	onStart []func(context.Context, net.Addr)
	onStop  []func(context.Context)
}

// Option configures a Server.
type Option func(*settings)

// WithConfig overlays the non-zero fields of cfg. Negative durations panic.
func WithConfig(cfg Config) Option {
	if min(cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout, cfg.ShutdownTimeout) < 0 {
		panic("httpserver: negative duration")
	}

	return func(s *settings) {
		if cfg.Addr != "" {
			s.Addr = cfg.Addr
		}
		if cfg.ReadTimeout > 0 {
			s.ReadTimeout = cfg.ReadTimeout
		}
		if cfg.WriteTimeout > 0 {
			s.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			s.IdleTimeout = cfg.IdleTimeout
		}
		if cfg.ShutdownTimeout > 0 {
			s.ShutdownTimeout = cfg.ShutdownTimeout
		}
	}
}

// WithServer serves through srv. Fields already set on srv win over the
// configuration; Handler and ErrorLog are filled in by Run.
func WithServer(srv *http.Server) Option {
	if srv == nil {
		panic("httpserver: nil server")
	}
	return func(s *settings) { s.server = srv }
}

// WithLogger sets the server logger. Nil discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// OnStart registers fn to run with the bound address once the listener is open.
func OnStart(fn func(ctx context.Context, addr net.Addr)) Option {
	if fn == nil {
		panic("httpserver: nil start hook")
	}
	return func(s *settings) { s.onStart = append(s.onStart, fn) }
}

// OnStop registers fn to run after the server has shut down.
func OnStop(fn func(ctx context.Context)) Option {
	if fn == nil {
		panic("httpserver: nil stop hook")
	}
	return func(s *settings) { s.onStop = append(s.onStop, fn) }
}
