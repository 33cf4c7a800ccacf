package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names understood by RegisterFlags and WithFlags.
const (
	FlagConfig         = "config"
	FlagPort           = "port"
	FlagLogLevel       = "log-level"
	FlagDatabaseDriver = "database-driver"
	FlagDatabaseURL    = "database-url"
)

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	FlagPort:           "server.port",
	FlagLogLevel:       "server.log_level",
	FlagDatabaseDriver: "database.driver",
	FlagDatabaseURL:    "database.url",
}

// RegisterFlags adds the shared configuration flags to fs. Flag defaults are
// empty so that unset flags never mask other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to a config file (yaml, json or toml)")
	fs.Int(FlagPort, 0, "HTTP port to listen on")
	fs.String(FlagLogLevel, "", "log level: debug, info, warn or error")
	fs.String(FlagDatabaseDriver, "", "card store driver: sqlite or postgres")
	fs.String(FlagDatabaseURL, "", "database connection URL or sqlite DSN")
}

// OptionsFromFlags returns the Load options implied by a parsed flag set.
func OptionsFromFlags(fs *pflag.FlagSet) []Option {
	opts := []Option{WithFlags(fs)}
	if path, err := fs.GetString(FlagConfig); err == nil && path != "" {
		opts = append(opts, WithConfigFile(path))
	}
	return opts
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		// Only explicitly set flags override; defaults stay with viper.
		if !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
