package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"vsupload/internal/store"
	"vsupload/internal/upload"
)

// DefaultFile is picked up from the working directory when --config is not set.
const DefaultFile = "vsupload.yaml"

// APIKeyEnv is consulted when neither a flag nor the file sets a key.
const APIKeyEnv = "OPENAI_API_KEY"

// Config mirrors vsupload.yaml. Every field is optional; flags override it.
type Config struct {
	APIKey           string   `yaml:"api_key"`
	BaseURL          string   `yaml:"base_url"`
	CollectionName   string   `yaml:"collection_name"`
	CollectionID     string   `yaml:"collection_id"`
	Timeout          Duration `yaml:"timeout"`
	Include          []string `yaml:"include"`
	RespectGitignore bool     `yaml:"respect_gitignore"`
	CleanupOnFailure bool     `yaml:"cleanup_on_failure"`
	VerifyCollection bool     `yaml:"verify_collection"`

	// UnsetVars names ${VAR} references that had no value and no default.
	UnsetVars []string `yaml:"-"`
}

// Duration wraps time.Duration for YAML strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "2m".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		BaseURL:        store.DefaultBaseURL,
		CollectionName: upload.DefaultCollectionName,
		Timeout:        Duration{60 * time.Second},
	}
}

// ResolveAPIKey picks the credential: explicit value, then file, then env.
func (c *Config) ResolveAPIKey(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.APIKey); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(APIKeyEnv))
}

// StoreConfig derives the HTTP client settings.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		BaseURL:        c.BaseURL,
		RequestTimeout: c.Timeout.Duration,
	}
}
