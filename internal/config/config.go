package config

import (
	"net"
	"os"
	"strconv"
	"strings"

	"launchdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Log       LogConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Host    string
	Port    string
	GinMode string
}

// Addr returns the host:port the dashboard listens on
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DataConfig holds the dataset location
type DataConfig struct {
	File string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// ProfilingConfig holds the ops/pprof listener settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Defaults mirror a zero-configuration run of the dashboard.
const (
	DefaultDatasetFile = "spacex_launch_dash.csv"
	DefaultHost        = "127.0.0.1"
	DefaultPort        = "8050"
	DefaultPprofPort   = "6060"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:    getEnvOrDefault("HOST", DefaultHost),
			Port:    getEnvOrDefault("PORT", DefaultPort),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Data: DataConfig{
			File: getEnvOrDefault("DATASET_FILE", DefaultDatasetFile),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", DefaultPprofPort),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Validate checks the fields the process cannot start without
func Validate(config *Config) error {
	if strings.TrimSpace(config.Data.File) == "" {
		return errors.ConfigInvalid("DATASET_FILE must not be empty")
	}
	if !validPort(config.Server.Port) {
		return errors.ConfigInvalid("PORT must be a number between 1 and 65535")
	}
	if config.Profiling.Enabled {
		if !validPort(config.Profiling.Port) {
			return errors.ConfigInvalid("PPROF_PORT must be a number between 1 and 65535")
		}
		if config.Profiling.Port == config.Server.Port {
			return errors.ConfigInvalid("PPROF_PORT must differ from PORT")
		}
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be one of debug, release, test")
	}
	return nil
}

func validPort(p string) bool {
	n, err := strconv.Atoi(p)
	return err == nil && n > 0 && n <= 65535
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
