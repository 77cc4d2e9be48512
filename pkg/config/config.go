package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents the application configuration
type Config struct {
	API       APIConfig `json:"api"`
	LogLevel  string    `json:"log_level"`
	LogFormat string    `json:"log_format"`
	LogFile   string    `json:"log_file"`
}

// APIConfig holds the GyaanSeek backend configuration
type APIConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	PageSize       int    `json:"page_size"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://localhost:4002/api/v1",
			TimeoutSeconds: 30,
			PageSize:       50,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// GetConfigPath returns the path to the config file (~/.gyaanseek/config.json)
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return filepath.Join(".gyaanseek", "config.json")
	}
	return filepath.Join(homeDir, ".gyaanseek", "config.json")
}

// Load loads configuration from the specified path.
// If the file doesn't exist, creates one with default values.
// Environment variables override file values.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg = applyEnvOverrides(cfg)
	return cfg, nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	base := strings.TrimSpace(c.API.BaseURL)
	if base == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", base)
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must not be negative")
	}
	if c.API.PageSize < 0 {
		return fmt.Errorf("api.page_size must not be negative")
	}
	return nil
}

func applyEnvOverrides(cfg Config) Config {
	if baseURL := os.Getenv("GYAANSEEK_API_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if timeout := os.Getenv("GYAANSEEK_API_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil && seconds > 0 {
			cfg.API.TimeoutSeconds = seconds
		}
	}
	if logLevel := os.Getenv("GYAANSEEK_LOG_LEVEL"); logLevel != "" {
		logLevel = strings.ToLower(logLevel)
		switch logLevel {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = logLevel
		}
	}
	if logFormat := os.Getenv("GYAANSEEK_LOG_FORMAT"); logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if logFile := os.Getenv("GYAANSEEK_LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}
	return cfg
}
