// Package httpserver runs an http.Handler with graceful shutdown and
// readiness probes.
//
// Server listens first and then serves, so start hooks observe an open
// listener and Addr reports the bound address (useful with port 0). Run
// blocks until its context is cancelled, an interrupt or TERM signal
// arrives, or Shutdown is called. Listen and serve failures are wrapped with
// ErrStart; shutdown failures with ErrShutdown.
//
// The default write timeout is zero so that long-lived SSE streams of live
// forms are not cut off. Stream handlers must end on their own (for example
// when their session store closes) for shutdown to complete in time.
//
// Usage:
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.HealthCheckHandler(log))
//	r.Get("/health/ready", httpserver.HealthCheckHandler(log,
//		httpserver.Check{Name: "uniqueness", Fn: backend.Healthcheck},
//	))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
