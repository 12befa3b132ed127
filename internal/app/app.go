// Package app wires the account service into an HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/susi/internal/auth"
	"github.com/ferdiebergado/susi/internal/config"
	"github.com/ferdiebergado/susi/internal/middleware"
)

type App struct {
	server          *http.Server
	handler         http.Handler
	stop            context.CancelFunc
	shutdownTimeout time.Duration
}

// New mounts the routes and middlewares over provider.Router and returns a server that is
// not yet listening.
func New(cfg *config.Config, provider *Provider) (*App, error) {
	module, err := auth.NewModule(&auth.Provider{
		Store:     provider.Store,
		Hasher:    provider.Hasher,
		Signer:    provider.Signer,
		Notifier:  auth.NewMailNotifier(provider.Mailer, cfg.Auth),
		Validator: provider.Validator,
		Metrics:   auth.NewMetrics(provider.Registry),
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("new auth module: %w", err)
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		middleware.CORS(cfg.Server.AllowedOrigin),
		middleware.ContextGuard,
		middleware.CheckContentType,
	}

	r := provider.Router
	for _, mw := range middlewares {
		r.Use(mw)
	}

	mountAuthRoutes(r, module.Handler(), provider.Validator, provider.Signer, cfg.Server.MaxBodyBytes)
	mountOpsRoutes(r, provider.Store, provider.Registry)

	serverCtx, stop := context.WithCancel(context.Background())
	serverCfg := cfg.Server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", serverCfg.Port),
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		IdleTimeout:  serverCfg.IdleTimeout,
	}

	return &App{
		server:          server,
		handler:         r,
		stop:            stop,
		shutdownTimeout: serverCfg.ShutdownTimeout,
	}, nil
}

// Handler returns the fully wired router.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Start serves until ctx is done or the server fails.
func (a *App) Start(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening...", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		slog.Info("Server has stopped.")
		serverErr <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received.")
		return nil
	case err := <-serverErr:
		return err
	}
}

func (a *App) Shutdown() error {
	slog.Info("Shutting down server...")
	a.stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
