// Package config provides configuration loading and management for
// semindex.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the complete semindex configuration.
type Config struct {
	Ontology OntologyConfig `yaml:"ontology"`
	Resolve  ResolveConfig  `yaml:"resolve"`
	Focus    FocusConfig    `yaml:"focus"`
	Publish  PublishConfig  `yaml:"publish"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// OntologyConfig configures the ontology sources.
type OntologyConfig struct {
	// Paths are doublestar glob patterns for Turtle files.
	Paths []string `yaml:"paths"`
	// Prefixes maps prefix names to namespaces for export compaction.
	Prefixes map[string]string `yaml:"prefixes"`
}

// ResolveConfig configures the resolution pipeline.
type ResolveConfig struct {
	// Concurrency bounds parallel enrichment workers.
	Concurrency int `yaml:"concurrency"`
}

// FocusConfig configures context pruning.
type FocusConfig struct {
	// Strategy is one of full, focused, neighborhood, minimal.
	Strategy string `yaml:"strategy"`
	// Nodes are the focus class IRIs.
	Nodes []string `yaml:"nodes"`
}

// PublishConfig configures NATS publishing of resolved units.
type PublishConfig struct {
	// Enabled turns publishing on.
	Enabled bool `yaml:"enabled"`
	// URL is the NATS server URL.
	URL string `yaml:"url"`
	// Subject is the graph ingestion subject.
	Subject string `yaml:"subject"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Listen is the HTTP listen address (empty = disabled).
	Listen string `yaml:"listen"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Ontology: OntologyConfig{
			Paths: []string{"**/*.ttl"},
		},
		Resolve: ResolveConfig{
			Concurrency: 50,
		},
		Focus: FocusConfig{
			Strategy: "full",
		},
		Publish: PublishConfig{
			Enabled: false,
			URL:     "nats://localhost:4222",
			Subject: "semindex.ingest.entity",
		},
		Metrics: MetricsConfig{
			Listen: "",
		},
	}
}

// knownStrategies mirrors the focus package; kept local so config stays a
// leaf package.
var knownStrategies = map[string]bool{
	"full":         true,
	"focused":      true,
	"neighborhood": true,
	"minimal":      true,
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Ontology.Paths) == 0 {
		return fmt.Errorf("ontology.paths is required")
	}
	if c.Resolve.Concurrency < 1 {
		return fmt.Errorf("resolve.concurrency must be at least 1")
	}
	if !knownStrategies[c.Focus.Strategy] {
		return fmt.Errorf("focus.strategy %q is not one of full, focused, neighborhood, minimal", c.Focus.Strategy)
	}
	if c.Publish.Enabled {
		if c.Publish.URL == "" {
			return fmt.Errorf("publish.url is required when publishing is enabled")
		}
		if c.Publish.Subject == "" {
			return fmt.Errorf("publish.subject is required when publishing is enabled")
		}
	}
	return nil
}

// ExpandPaths resolves the ontology glob patterns relative to root and
// returns the matching files, deduplicated and sorted.
func (c *Config) ExpandPaths(root string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range c.Ontology.Paths {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ontology path pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Ontology.Paths) > 0 {
		c.Ontology.Paths = other.Ontology.Paths
	}
	if len(other.Ontology.Prefixes) > 0 {
		if c.Ontology.Prefixes == nil {
			c.Ontology.Prefixes = make(map[string]string)
		}
		for prefix, ns := range other.Ontology.Prefixes {
			c.Ontology.Prefixes[prefix] = ns
		}
	}

	if other.Resolve.Concurrency != 0 {
		c.Resolve.Concurrency = other.Resolve.Concurrency
	}

	if other.Focus.Strategy != "" {
		c.Focus.Strategy = other.Focus.Strategy
	}
	if len(other.Focus.Nodes) > 0 {
		c.Focus.Nodes = other.Focus.Nodes
	}

	if other.Publish.Enabled {
		c.Publish.Enabled = true
	}
	if other.Publish.URL != "" {
		c.Publish.URL = other.Publish.URL
	}
	if other.Publish.Subject != "" {
		c.Publish.Subject = other.Publish.Subject
	}

	if other.Metrics.Listen != "" {
		c.Metrics.Listen = other.Metrics.Listen
	}
}
