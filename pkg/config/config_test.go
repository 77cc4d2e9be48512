package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:4002/api/v1" {
		t.Errorf("Unexpected default base URL: %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 30 {
		t.Errorf("Unexpected default timeout: %d", cfg.API.TimeoutSeconds)
	}
	if cfg.API.PageSize != 50 {
		t.Errorf("Unexpected default page size: %d", cfg.API.PageSize)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("Default config file was not created: %v", err)
	}
}

func TestLoadReadsExistingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	content := `{"api":{"base_url":"http://example.com/api","timeout_seconds":5,"page_size":10},"log_level":"debug"}`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://example.com/api" {
		t.Errorf("Unexpected base URL: %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 5 {
		t.Errorf("Unexpected timeout: %d", cfg.API.TimeoutSeconds)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected error for malformed config")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GYAANSEEK_API_URL", "http://override:9000/api")
	t.Setenv("GYAANSEEK_API_TIMEOUT", "7")
	t.Setenv("GYAANSEEK_LOG_LEVEL", "DEBUG")
	t.Setenv("GYAANSEEK_LOG_FORMAT", "text")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "http://override:9000/api" {
		t.Errorf("Base URL override not applied: %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 7 {
		t.Errorf("Timeout override not applied: %d", cfg.API.TimeoutSeconds)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Log level override not normalized: %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("Log format override not applied: %q", cfg.LogFormat)
	}
}

func TestEnvOverridesIgnoreInvalidValues(t *testing.T) {
	t.Setenv("GYAANSEEK_API_TIMEOUT", "not-a-number")
	t.Setenv("GYAANSEEK_LOG_LEVEL", "verbose")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.TimeoutSeconds != 30 {
		t.Errorf("Invalid timeout should keep default, got %d", cfg.API.TimeoutSeconds)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Invalid log level should keep default, got %q", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}

	cfg.API.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty base URL")
	}

	cfg.API.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for malformed base URL")
	}

	cfg = Default()
	cfg.API.TimeoutSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative timeout")
	}
}
