package config

import (
	"time"

	"github.com/phrazzld/flashcards/internal/domain/srs"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig     `mapstructure:"server" validate:"required"`
	Database DatabaseConfig   `mapstructure:"database" validate:"required"`
	Sweep    SweepConfig      `mapstructure:"sweep"`
	SRS      srs.ParamsConfig `mapstructure:"srs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	// CORSAllowedOrigins lists the origins browsers may call the API from.
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins" validate:"required,min=1,dive,required"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the card store implementation.
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `mapstructure:"url" validate:"required"`
}

// SweepConfig controls the periodic due-card sweep.
type SweepConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}
