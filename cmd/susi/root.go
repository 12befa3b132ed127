package main

import (
	"errors"
	"os"

	"github.com/ferdiebergado/gopherkit/env"
	"github.com/ferdiebergado/susi/internal/config"
	"github.com/ferdiebergado/susi/internal/pkg/logging"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "config.yaml"

var configFile string

// NewRootCmd creates the root command of the susi CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "susi",
		Short:        "susi - account registration, verification and password reset service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile, "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadConfig reads .env outside production, then the config file and the flags, and sets
// up logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if os.Getenv("ENV") != "production" {
		if err := env.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, oops.Code("CONFIG_INVALID").With("file", ".env").Wrap(err)
		}
	}

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("file", configFile).Wrap(err)
	}

	logging.SetupLogger(cfg.App.Env, cfg.App.LogLevel, os.Stderr)
	return cfg, nil
}
