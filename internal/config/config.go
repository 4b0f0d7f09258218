package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ExtractionDefaults holds per-dataset extraction defaults. Command-line
// flags take precedence over these values.
type ExtractionDefaults struct {
	Extractor       string `yaml:"extractor,omitempty"`
	Strict          bool   `yaml:"strict,omitempty"`
	SkipDerivatives bool   `yaml:"skip_derivatives,omitempty"`
}

// AggregateDefaults holds per-dataset aggregation defaults.
type AggregateDefaults struct {
	// Output is the aggregate store directory relative to the dataset
	// root. Empty selects the standard location.
	Output string `yaml:"output,omitempty"`
}

// ProjectConfig is the optional per-dataset configuration file content.
type ProjectConfig struct {
	Extraction ExtractionDefaults `yaml:"extraction"`
	Aggregate  AggregateDefaults  `yaml:"aggregate"`
}

const ConfigFileName = "datalad.yaml"

// Load reads the dataset's config file from sourcePath.
func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
