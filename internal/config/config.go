package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration.
type Config struct {
	Parsers map[string]Parser `yaml:"parsers" json:"parsers"`
	Options Options           `yaml:"options" json:"options"`
}

// Parser is the parse rule for one Go type: a function expression of type
// func(string) (T, error) and the import path it needs, if any.
type Parser struct {
	Func   string `yaml:"func" json:"func"`
	Import string `yaml:"import,omitempty" json:"import,omitempty"`
}

// Options represents generation options.
type Options struct {
	TagKey       string   `yaml:"tagKey" json:"tagKey"`
	Output       string   `yaml:"output" json:"output"`
	Runtime      string   `yaml:"runtime" json:"runtime"`
	IncludeTypes []string `yaml:"includeTypes" json:"includeTypes"`
	ExcludeTypes []string `yaml:"excludeTypes" json:"excludeTypes"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Parsers: DefaultParsers(),
		Options: DefaultOptions(),
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on extension).
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))

	var loaded Config
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return fmt.Errorf("unable to parse config as YAML or JSON")
			}
		}
	}

	// Merge loaded config with defaults
	c.merge(&loaded)

	return c.Validate()
}

// merge merges the loaded config into the current config.
func (c *Config) merge(loaded *Config) {
	// Loaded parse rules override defaults
	for k, v := range loaded.Parsers {
		c.Parsers[k] = v
	}

	if loaded.Options.TagKey != "" {
		c.Options.TagKey = loaded.Options.TagKey
	}
	if loaded.Options.Output != "" {
		c.Options.Output = loaded.Options.Output
	}
	if loaded.Options.Runtime != "" {
		c.Options.Runtime = loaded.Options.Runtime
	}
	if loaded.Options.IncludeTypes != nil {
		c.Options.IncludeTypes = loaded.Options.IncludeTypes
	}
	if loaded.Options.ExcludeTypes != nil {
		c.Options.ExcludeTypes = loaded.Options.ExcludeTypes
	}
}

// Validate checks the configuration for values generation cannot work with.
func (c *Config) Validate() error {
	if c.Options.TagKey == "" {
		return fmt.Errorf("tagKey must not be empty")
	}
	if !strings.HasSuffix(c.Options.Output, ".go") {
		return fmt.Errorf("output %q is not a .go file", c.Options.Output)
	}
	if c.Options.Runtime == "" {
		return fmt.Errorf("runtime import path must not be empty")
	}
	for typ, p := range c.Parsers {
		if p.Func == "" {
			return fmt.Errorf("parser for %s has no func", typ)
		}
	}
	return nil
}

// ParserFor returns the parse rule for a Go type as written in source,
// e.g. "uint32" or "time.Duration".
func (c *Config) ParserFor(goType string) (Parser, bool) {
	p, ok := c.Parsers[goType]
	return p, ok
}

// ShouldIncludeType checks if a type should be included based on config.
func (c *Config) ShouldIncludeType(name string) bool {
	// Check include list (if specified, type must be in it)
	if len(c.Options.IncludeTypes) > 0 {
		found := false
		for _, t := range c.Options.IncludeTypes {
			if t == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// Check exclude list
	for _, t := range c.Options.ExcludeTypes {
		if t == name {
			return false
		}
	}

	return true
}
