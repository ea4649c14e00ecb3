package main

import (
	"fmt"
	"os"

	"facultysite/internal"
	"facultysite/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "facultyd",
		Short:         "Faculty profile data service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newRefreshCmd(opts))
	cmd.AddCommand(newTablesCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	return cmd
}

// loadEnv loads the dotenv file if it exists. Variables already set win.
func (o *rootOptions) loadEnv() error {
	if o.envFile == "" {
		return nil
	}
	if err := godotenv.Load(o.envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load %s: %w", o.envFile, err)
	}
	return nil
}

// loadConfig reads the validated configuration and builds the logger.
func (o *rootOptions) loadConfig() (*config.Config, *internal.Logger, error) {
	if err := o.loadEnv(); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format)
	return cfg, logger, nil
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
