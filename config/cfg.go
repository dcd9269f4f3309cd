// Package config defines program configuration and prepares the logger
// built from it.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

type (
	// ScopingConfig controls how selectors are rewritten.
	ScopingConfig struct {
		Attribute string `yaml:"attribute"` // scope-marker attribute name
		Minify    bool   `yaml:"minify"`    // minify assembled output
	}

	Config struct {
		Version int           `yaml:"version"`
		Scoping ScopingConfig `yaml:"scoping"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// Prepare returns the embedded default configuration as YAML.
func Prepare() ([]byte, error) {
	return bytes.Clone(defaultConfig), nil
}

// LoadConfiguration builds the active configuration: embedded defaults
// overlaid with values from the optional YAML file.
func LoadConfiguration(fname string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultConfig, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse default configuration: %w", err)
	}
	if len(fname) == 0 {
		return cfg, nil
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration file '%s': %w", fname, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse configuration file '%s': %w", fname, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in '%s': %w", fname, err)
	}
	return cfg, nil
}

// Dump serializes actual configuration values to YAML.
func Dump(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("unable to serialize configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("unable to finish serializing configuration: %w", err)
	}
	return buf.Bytes(), nil
}

func (cfg *Config) validate() error {
	if cfg.Scoping.Attribute == "" {
		return fmt.Errorf("scoping attribute cannot be empty")
	}
	for _, lc := range []struct {
		name string
		conf LoggerConfig
	}{
		{"console", cfg.Logging.ConsoleLogger},
		{"file", cfg.Logging.FileLogger},
	} {
		switch lc.conf.Level {
		case "none", "normal", "debug":
		default:
			return fmt.Errorf("unknown %s log level '%s'", lc.name, lc.conf.Level)
		}
		switch lc.conf.Mode {
		case "", "append", "overwrite":
		default:
			return fmt.Errorf("unknown %s log mode '%s'", lc.name, lc.conf.Mode)
		}
	}
	if cfg.Logging.FileLogger.Level != "none" && len(cfg.Logging.FileLogger.Destination) == 0 {
		return fmt.Errorf("file logging requested without destination")
	}
	return nil
}
