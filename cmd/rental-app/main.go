package main

import (
	"os"

	"rental-app-go/internal/config"
	"rental-app-go/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "rental-app",
		Short:         "Rental lifecycle service",
		Long:          `Coordinates viewings, contracts, billing, repairs and notifications between landlords and tenants.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (overrides CONFIG_FILE)")
	rootCmd.AddCommand(serveCmd, migrateCmd, dispatchCmd, remindCmd)
}

// bootstrap loads configuration and builds the configured logger.
func bootstrap() (config.Config, logger.Logger, error) {
	log := logger.NewFromEnv()
	if configPath != "" {
		if err := os.Setenv("CONFIG_FILE", configPath); err != nil {
			return config.Config{}, log, err
		}
	}

	cfg, err := config.Load(log)
	if err != nil {
		return config.Config{}, log, err
	}

	configured, err := logger.NewFromConfig(cfg.Log)
	if err != nil {
		log.Warn("app: log config rejected, keeping bootstrap logger", "err", err)
		return cfg, log, nil
	}
	return cfg, configured, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.NewFromEnv().Critical("app: command failed", "err", err)
		os.Exit(1)
	}
}
