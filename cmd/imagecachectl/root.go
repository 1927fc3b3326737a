package main

import (
	"fmt"
	"os"

	"github.com/cgdmohamed/drznmobile-sub001/internal/adapter/logger"
	"github.com/cgdmohamed/drznmobile-sub001/internal/app"
	"github.com/cgdmohamed/drznmobile-sub001/internal/config"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/ports"

	"github.com/spf13/cobra"
)

// cfg holds the validated configuration, loaded from the same env as the server.
var cfg *config.Container

// application is set by appSetup for commands that touch the store.
var application *app.App

var log ports.LoggerPort

var rootCmd = &cobra.Command{
	Use:   "imagecachectl",
	Short: "Inspect and manage the image cache store",
	Long: `imagecachectl operates on the same persistent store as the image cache server.

Configuration is read from the environment (and .env outside production),
so STORE_BACKEND, REDIS_ADDRESS, DB_* and CACHE_* select the store it works on.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd, statsCmd, clearCmd, sweepCmd, tokenCmd)
}

// configSetup loads configuration and a stderr logger.
func configSetup(_ *cobra.Command, _ []string) error {
	if cfg != nil {
		return nil
	}
	c, err := config.New()
	if err != nil {
		return err
	}
	cfg = c
	log = logger.NewLoggerAdapterWriter(cfg.App.Env, os.Stderr)
	return nil
}

// appSetup connects the configured store and loads the index.
func appSetup(cmd *cobra.Command, args []string) error {
	if err := configSetup(cmd, args); err != nil {
		return err
	}
	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open image store: %w", err)
	}
	application = a
	return nil
}

func appTeardown(_ *cobra.Command, _ []string) error {
	if application == nil {
		return nil
	}
	err := application.Close()
	application = nil
	return err
}
