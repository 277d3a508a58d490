// Package config holds program configuration and logging setup.
package config

import (
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	// MarkupConfig tunes the inline markup codec.
	MarkupConfig struct {
		MathIDPrefix string `yaml:"math_id_prefix"`
	}

	// TableConfig supplies the fallback grid dimensions used when a stored
	// table record cannot be decoded.
	TableConfig struct {
		DefaultRows int `yaml:"default_rows"`
		DefaultCols int `yaml:"default_cols"`
	}

	Config struct {
		Version int           `yaml:"version"`
		Markup  MarkupConfig  `yaml:"markup"`
		Table   TableConfig   `yaml:"table"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// LoadConfiguration builds the active configuration: compiled-in defaults
// overlaid with values from the optional YAML file.
func LoadConfiguration(fname string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse default configuration: %w", err)
	}
	if len(fname) > 0 {
		data, err := os.ReadFile(fname)
		if err != nil {
			return nil, fmt.Errorf("unable to read configuration file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unable to parse configuration file '%s': %w", fname, err)
		}
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported configuration version %d", cfg.Version)
	}
	if cfg.Table.DefaultRows < 1 {
		cfg.Table.DefaultRows = 1
	}
	if cfg.Table.DefaultCols < 1 {
		cfg.Table.DefaultCols = 1
	}
	return &cfg, nil
}

// Dump serializes the active configuration back to YAML.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize configuration: %w", err)
	}
	return data, nil
}
