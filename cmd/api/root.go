package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorrc/aegis-helpdesk/internal/config"
	"github.com/lorrc/aegis-helpdesk/internal/infrastructure/logging"
)

var rootCmd = &cobra.Command{
	Use:           "aegis-helpdesk",
	Short:         "Help desk API: tickets, interactions, teams and dashboards",
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig loads the configuration and builds the structured logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	return cfg, logger, nil
}
