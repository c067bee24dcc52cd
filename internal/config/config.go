// Package config loads operator defaults from the tool config file. Every
// value has a command line flag equivalent; flags always win.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked up when --config is not given.
const DefaultPath = "azfuncapp.yaml"

// Config holds operator defaults for the CLI.
type Config struct {
	Subscription  string `yaml:"subscription"`
	Environment   string `yaml:"environment"`
	BaseName      string `yaml:"base_name"`
	Location      string `yaml:"location"`
	Parameters    string `yaml:"parameters"`
	Project       string `yaml:"project"`
	Configuration string `yaml:"configuration"`
	Output        string `yaml:"output"`
	Package       string `yaml:"package"`
	BuildTool     string `yaml:"build_tool"`
	StaticSite    bool   `yaml:"static_site"`
}

// Load reads the config file at path. When path is empty the default location
// is tried and a missing file yields a zero Config; an explicitly requested
// file must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Coalesce returns the first non-empty value.
func Coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
