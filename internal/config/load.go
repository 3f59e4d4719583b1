package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, expands environment variables, and
// unmarshals it over the defaults. References to unset variables without a
// default are listed in Config.UnsetVars.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	expanded, unset := expandEnv(data)

	cfg := Default()
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	cfg.UnsetVars = unset
	return cfg, nil
}

// LoadOrDefault loads path if given. With an empty path it reads
// DefaultFile when that exists and otherwise returns Default().
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if st, err := os.Stat(DefaultFile); err == nil && !st.IsDir() {
		return Load(DefaultFile)
	}
	return Default(), nil
}
