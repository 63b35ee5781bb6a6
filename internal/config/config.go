package config

import "github.com/studydev/studydev/internal/domain/srs"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs" validate:"required"`
	Review   ReviewConfig   `mapstructure:"review" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
}

// DatabaseConfig selects the storage backend.
// For sqlite the DSN is a file path (or ":memory:"); for postgres a connection URL.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// SRSConfig holds the scheduler parameters.
type SRSConfig struct {
	InitialEaseFactor float64 `mapstructure:"initial_ease_factor" validate:"gt=1"`
	MinEaseFactor     float64 `mapstructure:"min_ease_factor" validate:"gt=1"`
	FirstInterval     int     `mapstructure:"first_interval" validate:"gte=1"`
	SecondInterval    int     `mapstructure:"second_interval" validate:"gtefield=FirstInterval"`
	LapseInterval     int     `mapstructure:"lapse_interval" validate:"gte=1"`
}

// Params converts the configured values into scheduler parameters.
func (c SRSConfig) Params() srs.Params {
	return srs.Params{
		InitialEaseFactor: c.InitialEaseFactor,
		MinEaseFactor:     c.MinEaseFactor,
		FirstInterval:     c.FirstInterval,
		SecondInterval:    c.SecondInterval,
		LapseInterval:     c.LapseInterval,
	}
}

// ReviewConfig holds review session defaults.
type ReviewConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"gte=0"`
}

// ServerConfig contains settings for the local HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}
