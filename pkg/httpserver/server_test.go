package httpserver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/httpserver"
)

// start runs srv on a random local port and returns its address and the
// Run result channel.
func start(t *testing.T, ctx context.Context, handler http.Handler, opts ...httpserver.Option) (*httpserver.Server, string, <-chan error) {
	t.Helper()
	started := make(chan struct{})
	opts = append([]httpserver.Option{
		httpserver.WithConfig(httpserver.Config{Addr: "127.0.0.1:0", ShutdownTimeout: 100 * time.Millisecond}),
		httpserver.OnStart(func(context.Context, net.Addr) { close(started) }),
	}, opts...)
	srv := httpserver.New(opts...)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, handler) }()

	select {
	case <-started:
	case err := <-done:
		t.Fatalf("server did not start: %v", err)
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}
	return srv, srv.Addr(), done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err, "run")
	case <-time.After(time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, addr, done := start(t, ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	require.NotEmpty(t, addr)

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	cancel()
	waitDone(t, done)
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestRun_ManualShutdownRunsStopHooks(t *testing.T) {
	t.Parallel()
	var stopped atomic.Int32
	srv, _, done := start(t, context.Background(), nil,
		httpserver.OnStop(func(context.Context) { stopped.Add(1) }),
	)

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
	assert.Equal(t, int32(1), stopped.Load())
}

func TestRun_StartErrors(t *testing.T) {
	t.Parallel()

	t.Run("bad address", func(t *testing.T) {
		t.Parallel()
		srv := httpserver.New(httpserver.WithConfig(httpserver.Config{Addr: ":invalid"}))
		err := srv.Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
		assert.Empty(t, srv.Addr())
	})

	t.Run("already running", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		srv, _, done := start(t, ctx, nil)

		err := srv.Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)

		cancel()
		waitDone(t, done)
	})
}

func TestRun_AppliesOptions(t *testing.T) {
	t.Parallel()
	var logs strings.Builder
	var mu sync.Mutex
	l := slog.New(slog.NewTextHandler(&lockedWriter{mu: &mu, w: &logs}, nil))
	hs := &http.Server{ReadTimeout: 7 * time.Second}
	bound := make(chan net.Addr, 1)

	srv, addr, done := start(t, context.Background(), nil,
		httpserver.WithServer(hs),
		httpserver.WithConfig(httpserver.Config{
			ReadTimeout:  time.Second,
			WriteTimeout: 2 * time.Second,
			IdleTimeout:  3 * time.Second,
		}),
		httpserver.WithLogger(l),
		httpserver.OnStart(func(_ context.Context, a net.Addr) { bound <- a }),
	)

	assert.Equal(t, addr, (<-bound).String())
	assert.Equal(t, "127.0.0.1:0", hs.Addr)
	assert.NotEqual(t, hs.Addr, addr, "bound port is resolved")
	assert.Equal(t, 7*time.Second, hs.ReadTimeout, "server value wins")
	assert.Equal(t, 2*time.Second, hs.WriteTimeout)
	assert.Equal(t, 3*time.Second, hs.IdleTimeout)
	assert.NotNil(t, hs.Handler)
	assert.NotNil(t, hs.ErrorLog)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, logs.String(), "http server listening")
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	hs := &http.Server{}
	srv := httpserver.NewFromConfig(httpserver.Config{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     time.Second,
		ShutdownTimeout: 100 * time.Millisecond,
	}, httpserver.WithServer(hs))

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), nil) }()
	require.Eventually(t, func() bool { return srv.Addr() != "" }, time.Second, 5*time.Millisecond)

	assert.Equal(t, time.Second, hs.ReadTimeout)
	assert.Zero(t, hs.WriteTimeout, "zero durations stay unset")
	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

// Not parallel: the signal reaches every running server in the process.
func TestRun_SignalShutdown(t *testing.T) {
	_, _, done := start(t, context.Background(), nil)

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(syscall.SIGTERM))
	waitDone(t, done)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fn   func()
	}{
		{"negative duration", func() { httpserver.WithConfig(httpserver.Config{IdleTimeout: -time.Second}) }},
		{"server", func() { httpserver.WithServer(nil) }},
		{"start hook", func() { httpserver.OnStart(nil) }},
		{"stop hook", func() { httpserver.OnStop(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, tt.fn)
		})
	}
	assert.NotPanics(t, func() { httpserver.WithLogger(nil) })
	assert.NotPanics(t, func() { httpserver.WithConfig(httpserver.Config{}) })
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	probe := func(h http.Handler) (int, string) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		return rec.Code, rec.Body.String()
	}

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		code, body := probe(httpserver.HealthCheckHandler(nil))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ALIVE", body)
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		var deadline atomic.Bool
		code, body := probe(httpserver.HealthCheckHandler(nil, httpserver.Check{
			Name: "uniqueness",
			Fn: func(ctx context.Context) error {
				_, ok := ctx.Deadline()
				deadline.Store(ok)
				return nil
			},
		}))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "READY", body)
		assert.True(t, deadline.Load(), "checks run with a deadline")
	})

	t.Run("not ready lists failures", func(t *testing.T) {
		t.Parallel()
		ok := func(context.Context) error { return nil }
		fail := func(context.Context) error { return errors.New("connection refused") }

		code, body := probe(httpserver.HealthCheckHandler(slog.New(slog.DiscardHandler),
			httpserver.Check{Name: "redis", Fn: fail},
			httpserver.Check{Name: "postgres", Fn: ok},
			httpserver.Check{Name: "mongo", Fn: fail},
		))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "NOT_READY: redis, mongo", body)
	})
}
