package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FlagBindings maps global command-line flag names to configuration keys.
var FlagBindings = map[string]string{
	"db":         "database.dsn",
	"driver":     "database.driver",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// EnvPrefix is the prefix of environment variables that override configuration.
const EnvPrefix = "STUDYDEV"

// DefaultDir returns the directory holding the default config file and database.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studydev"
	}
	return filepath.Join(home, ".studydev")
}

func setDefaults(v *viper.Viper) {
	dir := DefaultDir()

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", filepath.Join(dir, "studydev.db"))

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("srs.initial_ease_factor", 2.5)
	v.SetDefault("srs.min_ease_factor", 1.3)
	v.SetDefault("srs.first_interval", 1)
	v.SetDefault("srs.second_interval", 6)
	v.SetDefault("srs.lapse_interval", 1)

	v.SetDefault("review.default_limit", 10)

	v.SetDefault("server.addr", "127.0.0.1:8765")
}

// Load configuration from defaults, an optional config file and environment variables.
// Environment variables take precedence over values from config files.
//
// When path is empty, ~/.studydev/config.yaml is read if it exists. A .env file in the
// working directory is loaded first; variables already set in the environment win.
// Returns a populated Config or an error if loading or validation fails.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags is Load with command-line overrides. Flags named in
// FlagBindings take precedence over every other source when set explicitly.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(DefaultDir(), "config.yaml")
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
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

// Validate checks struct tags and the cross-field scheduler constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := cfg.SRS.Params().Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
