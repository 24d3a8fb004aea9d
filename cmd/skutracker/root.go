package main

import (
	"fmt"
	"os"

	"sku-tracker/internal/core/config"
	"sku-tracker/internal/core/logger"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "skutracker",
	Short:         "SKU event tracking service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing the .env file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// Execute runs the command tree and is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and initializes the global logger.
func bootstrap() (*config.AppConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, nil
}
