package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/phrazzld/flashcards/internal/domain/srs"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. FLASHCARDS_SERVER_PORT or FLASHCARDS_DATABASE_URL.
const EnvPrefix = "FLASHCARDS"

type loadOptions struct {
	configFile string
	envFile    string
	flags      *pflag.FlagSet
}

// Option customizes Load.
type Option func(*loadOptions)

// WithConfigFile reads settings from the given YAML/JSON/TOML file.
// A missing explicit file is an error.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) { o.configFile = path }
}

// WithEnvFile loads the given dotenv file into the process environment
// before variables are read. Variables already set are not overridden.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// WithFlags binds the flags registered by RegisterFlags. Flags that were set
// on the command line take precedence over every other source.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *loadOptions) { o.flags = fs }
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:8080"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "file:flashcards.db")

	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.interval", "1h")

	params := srs.NewDefaultParams()
	v.SetDefault("srs.min_ease_factor", params.MinEaseFactor)
	v.SetDefault("srs.max_ease_factor", params.MaxEaseFactor)
	v.SetDefault("srs.ease_factor_step", params.EaseFactorStep)
	v.SetDefault("srs.min_interval", params.MinInterval)
	v.SetDefault("srs.max_interval", params.MaxInterval)
	v.SetDefault("srs.hard_interval", params.HardInterval)
}

// Load configuration from defaults, an optional config file, a .env file,
// environment variables and command-line flags, in increasing precedence.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{envFile: ".env"}
	for _, opt := range opts {
		opt(&o)
	}

	if err := loadEnvFile(o.envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", o.configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.flags != nil {
		if err := bindFlags(v, o.flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and that the SRS parameters form a sane schedule.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := srs.NewParams(cfg.SRS).Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
