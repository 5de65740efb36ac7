// Package app controls the HTTP transport lifecycle: listener setup,
// health probes, and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudsentry/aws-sentinel/internal/policy"
	"github.com/cloudsentry/aws-sentinel/internal/timeutil"
)

// App controls the HTTP server lifecycle.
type App struct {
	baseCtx         context.Context
	server          *http.Server
	probes          *Probes
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New initializes the HTTP server with health endpoints.
func New(baseCtx context.Context, serverPol policy.ServerPolicy, handler http.Handler, logger *slog.Logger, shutdownTimeout time.Duration) (*App, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is nil")
	}
	if baseCtx == nil {
		return nil, fmt.Errorf("base context is nil")
	}

	probes := &Probes{}
	mux := http.NewServeMux()
	mux.Handle(serverPol.HTTP.Path, handler)
	mux.HandleFunc("/healthz", probes.Healthz)
	mux.HandleFunc("/readyz", probes.Readyz)

	srv := &http.Server{
		Addr:         net.JoinHostPort(serverPol.HTTP.Host, strconv.Itoa(serverPol.HTTP.Port)),
		Handler:      mux,
		ReadTimeout:  timeutil.ParseDurationOrDefault(serverPol.HTTP.ReadTimeout, 15*time.Second),
		WriteTimeout: timeutil.ParseDurationOrDefault(serverPol.HTTP.WriteTimeout, 15*time.Second),
		IdleTimeout:  timeutil.ParseDurationOrDefault(serverPol.HTTP.IdleTimeout, 60*time.Second),
	}

	if shutdownTimeout == 0 {
		shutdownTimeout = timeutil.ParseDurationOrDefault(serverPol.ShutdownTimeout, 10*time.Second)
	}

	return &App{
		baseCtx:         baseCtx,
		server:          srv,
		probes:          probes,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.probes.SetReady()
		if a.logger != nil {
			a.logger.Info("http server started", "addr", a.server.Addr)
		}
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		if a.logger != nil {
			a.logger.Info("shutdown requested")
		}
		return a.shutdown()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		if a.logger != nil {
			a.logger.Error("http server error", "error", err)
		}
		return err
	}
}

func (a *App) shutdown() error {
	a.probes.SetNotReady()
	ctx, cancel := context.WithTimeout(a.baseCtx, a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
