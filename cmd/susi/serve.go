package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferdiebergado/susi/internal/app"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	slog.Info("Starting server...")
	if err := app.Run(ctx, cfg); err != nil {
		slog.Error("Server failed.", "reason", err)
		return err
	}

	slog.Info("Server shutdown gracefully.")
	return nil
}
