package driver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the session configuration, loadable from a YAML file:
//
//	mode: legacy        # legacy | modern | auto
//	max_depth: 100
//	max_ticks: 1000000
type Config struct {
	Mode     string `yaml:"mode"`
	MaxDepth int    `yaml:"max_depth"`
	MaxTicks int    `yaml:"max_ticks"`
}

// LoadConfig reads a YAML config file. A missing path returns the zero
// config without an error, so the file stays optional.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := ParseMode(cfg.Mode); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
