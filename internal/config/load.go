package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is used when no --config flag is given.
const DefaultConfigFile = "cloudtemplate.yaml"

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(data)
}

// Load parses YAML configuration, applies defaults and environment
// overrides, and validates the result.
func Load(data []byte) (*Config, error) {
	cfg := newConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.ApplyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv applies environment overrides. Only secrets are read from the
// environment; everything else belongs in the file.
func (c *Config) applyEnv() {
	if pw := os.Getenv(DBPasswordEnvVar); pw != "" {
		c.Database.MasterPassword = pw
	}
}
