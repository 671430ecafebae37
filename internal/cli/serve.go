package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	httpAdapter "github.com/aretw0/advisor/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler builds the HTTP API of app.
func (a *App) Handler() http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(a.Logger),
		httpAdapter.WithCORSOrigins(a.Config.HTTP.CORSOrigins...),
	}
	if a.Registry != nil {
		opts = append(opts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))
	}
	return httpAdapter.NewHandler(a.Engine, a.Sessions, opts...)
}

// Serve runs the HTTP API on ln until ctx is cancelled, then shuts down
// within the configured timeout.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	cfg := a.Config.HTTP
	srv := &http.Server{
		Handler:      a.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	if a.Config.Data.Watch {
		a.WatchDatasets(ctx)
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP server listening", "address", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.Logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", cfg.ShutdownTimeout, err)
		}
		return nil
	}
}
