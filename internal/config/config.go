// Package config loads client settings from an optional YAML file and the
// environment, with environment variables taking precedence. A .env file
// in the working directory is honored for development setups.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI needs to construct the SDK.
type Config struct {
	// BaseURL is the backend endpoint, e.g. https://packet.example.com.
	BaseURL string `yaml:"base_url"`

	// DBPath is the location of the local session database.
	DBPath string `yaml:"db_path"`

	// HTTPTimeoutSeconds bounds a single API request. Default 30.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
}

// HTTPTimeout returns the request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Load reads the config file at its default location (if present), applies
// environment overrides and validates the result. Environment variables:
// PACKET_BASE_URL, PACKET_DB_PATH, PACKET_HTTP_TIMEOUT.
func Load() (*Config, error) {
	// Development convenience; missing .env is not an error.
	_ = godotenv.Load()

	return LoadFrom(defaultConfigPath())
}

// LoadFrom is Load with an explicit config file path; path may name a
// nonexistent file, in which case only defaults and environment apply.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		DBPath:             defaultDBPath(),
		HTTPTimeoutSeconds: 30,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.BaseURL = getEnv("PACKET_BASE_URL", cfg.BaseURL)
	cfg.DBPath = getEnv("PACKET_DB_PATH", cfg.DBPath)
	cfg.HTTPTimeoutSeconds = getEnvInt("PACKET_HTTP_TIMEOUT", cfg.HTTPTimeoutSeconds)

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("PACKET_BASE_URL is required (or base_url in %s)", defaultConfigPath())
	}
	if cfg.HTTPTimeoutSeconds < 1 {
		return nil, fmt.Errorf("PACKET_HTTP_TIMEOUT must be at least 1, got %d", cfg.HTTPTimeoutSeconds)
	}

	return cfg, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "packet", "config.yaml")
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "packet-session.db"
	}
	return filepath.Join(dir, "packet", "session.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
