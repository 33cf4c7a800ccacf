package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashcards/internal/config"
	"github.com/spf13/pflag"
)

// loadAppConfig loads the application configuration from defaults, files,
// the environment and the parsed command-line flags.
func loadAppConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(config.OptionsFromFlags(fs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url_present", true)
	}

	return cfg, nil
}
