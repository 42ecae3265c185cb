// Package config loads the analyzer's optional settings file,
// ".typedep.yaml", overriding the built-in defaults for things the command
// line doesn't expose: the size/complexity thresholds MetricSummary filters
// on and which log sinks start active. It also reads per-extension pattern
// lists; internal/discover does not consult them and uses its own built-in
// lists.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk settings shape. Every field is optional; a field the
// file leaves out keeps its Default() value (see Load).
type Config struct {
	HeaderPatterns []string `yaml:"headerPatterns"`
	ImplPatterns   []string `yaml:"implPatterns"`
	CSharpPatterns []string `yaml:"csharpPatterns"`

	Thresholds struct {
		MaxSize       int `yaml:"maxSize"`
		MaxComplexity int `yaml:"maxComplexity"`
	} `yaml:"thresholds"`

	Logging struct {
		Demo bool `yaml:"demo"`
		Dbug bool `yaml:"dbug"`
	} `yaml:"logging"`
}

// Default returns the built-in settings used when no config file is found.
func Default() *Config {
	return &Config{
		HeaderPatterns: []string{"*.h", "*.hpp", "*.hh"},
		ImplPatterns:   []string{"*.cpp", "*.cc", "*.cxx"},
		CSharpPatterns: []string{"*.cs"},
		Thresholds: struct {
			MaxSize       int `yaml:"maxSize"`
			MaxComplexity int `yaml:"maxComplexity"`
		}{MaxSize: 100, MaxComplexity: 10},
	}
}

// Load reads path, merging it over Default(). A missing file is not an
// error — the defaults stand unchanged — but a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
