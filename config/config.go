// Package config loads service configuration from an optional YAML file
// with environment variable overrides, and owns logger construction.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	LogLevel   string `yaml:"log_level"`

	SupabaseURL        string `yaml:"supabase_url"`
	SupabaseServiceKey string `yaml:"supabase_service_key"`

	ProviderBaseURL string `yaml:"provider_base_url"`

	// AutosaveInterval is how often dirty editing sessions are saved in the
	// background. Zero disables autosave.
	AutosaveInterval time.Duration `yaml:"-"`
}

// fileConfig mirrors Config for YAML decoding; durations arrive as strings
// like "2m" and are parsed separately.
type fileConfig struct {
	ListenAddr         string `yaml:"listen_addr"`
	LogLevel           string `yaml:"log_level"`
	SupabaseURL        string `yaml:"supabase_url"`
	SupabaseServiceKey string `yaml:"supabase_service_key"`
	ProviderBaseURL    string `yaml:"provider_base_url"`
	AutosaveInterval   string `yaml:"autosave_interval"`
}

// Load reads the YAML file at path when it exists, then applies environment
// overrides and defaults. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ListenAddr:       ":3000",
		LogLevel:         "info",
		AutosaveInterval: 2 * time.Minute,
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else {
			var fc fileConfig
			if err := yaml.Unmarshal(raw, &fc); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
			applyFile(&cfg.ListenAddr, fc.ListenAddr)
			applyFile(&cfg.LogLevel, fc.LogLevel)
			applyFile(&cfg.SupabaseURL, fc.SupabaseURL)
			applyFile(&cfg.SupabaseServiceKey, fc.SupabaseServiceKey)
			applyFile(&cfg.ProviderBaseURL, fc.ProviderBaseURL)
			if fc.AutosaveInterval != "" {
				d, err := time.ParseDuration(fc.AutosaveInterval)
				if err != nil {
					return nil, fmt.Errorf("config: invalid autosave_interval %q: %w", fc.AutosaveInterval, err)
				}
				cfg.AutosaveInterval = d
			}
		}
	}

	applyEnv(&cfg.ListenAddr, "LISTEN_ADDR")
	applyEnv(&cfg.LogLevel, "LOG_LEVEL")
	applyEnv(&cfg.SupabaseURL, "SUPABASE_URL")
	applyEnv(&cfg.SupabaseServiceKey, "SUPABASE_SERVICE_KEY")
	applyEnv(&cfg.ProviderBaseURL, "AI_PROVIDER_URL")
	if v := os.Getenv("AUTOSAVE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid AUTOSAVE_INTERVAL %q: %w", v, err)
		}
		cfg.AutosaveInterval = d
	}

	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("config: SUPABASE_URL and SUPABASE_SERVICE_KEY must be set")
	}
	if cfg.ProviderBaseURL == "" {
		return nil, fmt.Errorf("config: AI_PROVIDER_URL must be set")
	}
	return cfg, nil
}

func applyEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func applyFile(target *string, value string) {
	if value != "" {
		*target = value
	}
}
