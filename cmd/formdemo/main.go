// Command formdemo serves a live, server-validated signup form.
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/formguard/pkg/config"
	"github.com/dmitrymomot/formguard/pkg/form"
	"github.com/dmitrymomot/formguard/pkg/formdef"
	"github.com/dmitrymomot/formguard/pkg/httpserver"
	"github.com/dmitrymomot/formguard/pkg/live"
	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/uniqueness"
)

//go:embed signup.yaml
var signupDefinition []byte

// accountsNamespace holds registered emails in the uniqueness backend.
const accountsNamespace = "accounts"

type appConfig struct {
	Logger     logger.Config
	Form       form.Config
	Uniqueness uniqueness.Config
	HTTP       httpserver.Config
	Live       live.Config

	// Definition is an optional path to a form definition replacing the
	// embedded signup form.
	Definition string `env:"FORM_DEFINITION"`
}

func main() {
	var cfg appConfig
	handleErr("loading config", config.Load(&cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()
	handleErr("running formdemo", err)
}

// run serves the form until ctx is cancelled. Resources opened here are
// released before it returns, including on errors.
func run(ctx context.Context, cfg appConfig) error {
	lg, err := logger.NewFromConfig(cfg.Logger)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger.SetAsDefault(lg)

	def, err := loadDefinition(cfg.Definition)
	if err != nil {
		return fmt.Errorf("loading form definition: %w", err)
	}

	backend, err := uniqueness.Open(ctx, cfg.Uniqueness, lg)
	if err != nil {
		return fmt.Errorf("opening uniqueness backend: %w", err)
	}
	defer func() {
		if err := backend.Close(context.WithoutCancel(ctx)); err != nil {
			lg.Error("closing uniqueness backend", logger.Error(err))
		}
	}()

	var checker uniqueness.Checker = backend
	var cached *uniqueness.Cached
	if cfg.Uniqueness.CacheTTL > 0 {
		cached = uniqueness.NewCached(backend, cfg.Uniqueness.CacheTTL)
		checker = cached
	}

	rules := formdef.DefaultRules().With("unique",
		uniqueness.RuleFactory(checker, uniqueness.WithLogger(lg)))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := live.NewFromConfig(def, rules, cfg.Live,
		live.WithLogger(lg),
		live.WithMetrics(live.NewMetrics(reg)),
		live.WithFormOptions(cfg.Form.Options()...),
		live.WithMessages(cfg.Form.Messages()),
		live.WithSubmitHandler(register(backend, cached, lg)),
	)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go h.Store().Run(sweepCtx, cfg.Live.SweepInterval)

	r := chi.NewRouter()
	r.Use(httpserver.RequestID)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.Live.BasePath+"/", http.StatusFound)
	})
	r.Mount(cfg.Live.BasePath, h.Handle())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/health/live", httpserver.HealthCheckHandler(lg))
	r.Get("/health/ready", httpserver.HealthCheckHandler(lg,
		httpserver.Check{Name: "uniqueness", Fn: backend.Healthcheck},
	))

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(lg))
	if err := srv.Run(ctx, r); err != nil {
		lg.Error("http server stopped", logger.Error(err))
		return err
	}
	return nil
}

// register reserves the submitted email, so that a racing signup with the
// same address fails even after both passed the asynchronous check.
// cached may be nil.
func register(backend uniqueness.Backend, cached *uniqueness.Cached, lg *slog.Logger) live.SubmitHandler {
	return func(ctx context.Context, values live.Values) error {
		email := uniqueness.Normalize(values["email"])
		err := backend.Reserve(ctx, accountsNamespace, email)
		if cached != nil {
			cached.Forget(accountsNamespace, email)
		}
		switch {
		case errors.Is(err, uniqueness.ErrTaken):
			return &form.Error{Code: "taken", Message: "This email is already registered."}
		case err != nil:
			return err
		}
		lg.InfoContext(ctx, "account registered", slog.String("plan", values["plan"]))
		return nil
	}
}

func loadDefinition(path string) (*formdef.Definition, error) {
	if path != "" {
		return formdef.Load(path)
	}
	return formdef.Parse(signupDefinition)
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error %s: %v", msg, err)
	}
}
