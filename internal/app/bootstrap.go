package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ferdiebergado/susi/internal/config"
	"github.com/ferdiebergado/susi/internal/pkg/message"
)

const envKey = "KEY"

// Run builds the service from cfg and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	slog.Info("Initializing...")

	securityKey, ok := os.LookupEnv(envKey)
	if !ok || securityKey == "" {
		return fmt.Errorf(message.EnvErrFmt, envKey)
	}

	provider, err := NewProvider(ctx, cfg, securityKey)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Close(); err != nil {
			slog.Error("Failed to close connections.", "reason", err)
		}
	}()

	app, err := New(cfg, provider)
	if err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	return app.Shutdown()
}
