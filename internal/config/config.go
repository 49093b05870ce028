// Package config loads settings from defaults, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Classifier provider names. ProviderNone disables classification explicitly.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderNone      = "none"
)

// DefaultDeleteSecret is the shared secret the delete gate accepts out of the box.
const DefaultDeleteSecret = "admin123"

// ClassifierConfig selects and configures the mood classification provider.
type ClassifierConfig struct {
	Provider string `yaml:"provider"` // gemini | anthropic | none; empty picks gemini when a key is set
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
}

// Config holds all runtime settings.
type Config struct {
	DBPath       string           `yaml:"db_path"`
	Addr         string           `yaml:"addr"`
	LogLevel     string           `yaml:"log_level"`
	LogFormat    string           `yaml:"log_format"`
	DeleteSecret string           `yaml:"delete_secret"`
	CORSOrigins  []string         `yaml:"cors_origins"`
	Classifier   ClassifierConfig `yaml:"classifier"`
}

// Dir returns the default data directory (~/.arsip).
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".arsip")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:       filepath.Join(Dir(), "arsip.db"),
		Addr:         "127.0.0.1:8080",
		LogLevel:     "info",
		LogFormat:    "json",
		DeleteSecret: DefaultDeleteSecret,
		CORSOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Load builds a Config from defaults, the YAML file at path and the environment.
// An empty path falls back to ~/.arsip/config.yaml; a missing default file is ignored,
// a missing explicit file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(Dir(), "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()

	if cfg.DeleteSecret == "" {
		return nil, fmt.Errorf("delete_secret must not be empty")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.DBPath, "ARSIP_DB")
	setFromEnv(&c.Addr, "ARSIP_ADDR")
	setFromEnv(&c.LogLevel, "ARSIP_LOG_LEVEL")
	setFromEnv(&c.LogFormat, "ARSIP_LOG_FORMAT")
	setFromEnv(&c.DeleteSecret, "ARSIP_DELETE_SECRET")
	explicit := c.Classifier.Provider != ""
	if v, ok := os.LookupEnv("ARSIP_CLASSIFIER"); ok {
		c.Classifier.Provider = v
		explicit = true
	}
	setFromEnv(&c.Classifier.Model, "ARSIP_CLASSIFIER_MODEL")
	setFromEnv(&c.Classifier.BaseURL, "ARSIP_CLASSIFIER_URL")

	// A Gemini key alone turns classification on.
	if !explicit && (c.Classifier.APIKey != "" || firstEnv(geminiKeys...) != "") {
		c.Classifier.Provider = ProviderGemini
	}
	if c.Classifier.Provider == ProviderNone {
		c.Classifier.Provider = ""
	}

	if c.Classifier.APIKey != "" {
		return
	}
	switch c.Classifier.Provider {
	case ProviderGemini:
		c.Classifier.APIKey = firstEnv(geminiKeys...)
	case ProviderAnthropic:
		c.Classifier.APIKey = firstEnv("ANTHROPIC_API_KEY")
	}
}

var geminiKeys = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
