package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"gogaze/adapters/stats/events"
	"gogaze/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig
	Database DatabaseConfig
	Log      LogConfig
	// ParamsFile points at a YAML detector parameter preset; empty uses defaults
	ParamsFile string
}

// PipelineConfig holds batch processing settings
type PipelineConfig struct {
	Workers     int
	MissingMode events.MissingMode
}

// DatabaseConfig holds event store settings. An empty DSN disables the store.
type DatabaseConfig struct {
	DSN string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Pipeline:   *loadPipelineConfig(),
		Database:   DatabaseConfig{DSN: getEnvOrDefault("GAZEKIT_DB_DSN", "")},
		Log:        LogConfig{Level: strings.ToLower(getEnvOrDefault("GAZEKIT_LOG_LEVEL", "info"))},
		ParamsFile: getEnvOrDefault("GAZEKIT_PARAMS", ""),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Workers:     getEnvIntOrDefault("GAZEKIT_WORKERS", runtime.GOMAXPROCS(0)),
		MissingMode: events.MissingMode(getEnvOrDefault("GAZEKIT_MISSING", string(events.MissingNone))),
	}
}

func validateConfig(config *Config) error {
	if config.Pipeline.Workers < 1 {
		return errors.ConfigInvalid("GAZEKIT_WORKERS must be at least 1")
	}
	if err := config.Pipeline.MissingMode.Validate(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.ConfigInvalid("GAZEKIT_LOG_LEVEL must be one of debug, info, warn, error")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
