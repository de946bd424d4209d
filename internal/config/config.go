// Package config loads the pipeline's YAML configuration.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration.
type Config struct {
	Splits        map[string]Split `yaml:"splits"`
	DatabaseRoots []string         `yaml:"database_roots"`
	Workers       int              `yaml:"workers"`
	Listen        string           `yaml:"listen"`
}

// Split describes one question split's files.
type Split struct {
	// Tables is the schema-record (tables) file for the split.
	Tables string `yaml:"tables"`
	// Questions are the question files processed in order; missing ones
	// are skipped (appendix files are optional).
	Questions []string `yaml:"questions"`
	// Output is where built gold-graph records are written.
	Output string `yaml:"output"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyEnv fills in empty fields from environment variables. YAML values
// take precedence; env vars are only a fallback.
func (c *Config) applyEnv() {
	if len(c.DatabaseRoots) == 0 {
		if v := os.Getenv("GOLDGRAPH_DB_ROOT"); v != "" {
			c.DatabaseRoots = []string{v}
		}
	}
	if c.Listen == "" {
		c.Listen = os.Getenv("GOLDGRAPH_LISTEN")
	}
	if c.Workers == 0 {
		if s := os.Getenv("GOLDGRAPH_WORKERS"); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				c.Workers = n
			}
		}
	}
}

func (c *Config) validate() error {
	if len(c.Splits) == 0 {
		return fmt.Errorf("at least one split must be configured")
	}
	for name, s := range c.Splits {
		if s.Tables == "" {
			return fmt.Errorf("splits.%s.tables is required", name)
		}
		if len(s.Questions) == 0 {
			return fmt.Errorf("splits.%s.questions is required", name)
		}
		if s.Output == "" {
			return fmt.Errorf("splits.%s.output is required", name)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.Listen == "" {
		c.Listen = ":8000"
	}
	return nil
}

// Split returns a configured split by name.
func (c *Config) Split(name string) (*Split, error) {
	s, ok := c.Splits[name]
	if !ok {
		return nil, fmt.Errorf("split %q is not configured", name)
	}
	return &s, nil
}

// SplitNames returns the configured split names, "train" and "dev" first,
// the rest sorted.
func (c *Config) SplitNames() []string {
	var names []string
	for _, preferred := range []string{"train", "dev"} {
		if _, ok := c.Splits[preferred]; ok {
			names = append(names, preferred)
		}
	}
	var extra []string
	for name := range c.Splits {
		if name != "train" && name != "dev" {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
