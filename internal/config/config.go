// Package config holds all revintel configuration. Config is stored as YAML
// under .revintel/config.yaml; environment variables override the retrieval
// backend settings for deployment without a config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"revintel/internal/intel"
)

// Config holds all revintel configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Retrieval backend configuration
	Retrieval RetrievalConfig `yaml:"retrieval"`

	// Gathering policy
	Gather GatherConfig `yaml:"gather"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// RetrievalConfig configures the retrieval backend. An empty BaseURL selects
// the in-process static provider.
type RetrievalConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// GatherConfig configures the intelligence gathering policy.
type GatherConfig struct {
	MinICPFit         float64 `yaml:"min_icp_fit"`
	MaxTools          int     `yaml:"max_tools"`
	GatherTimeout     string  `yaml:"gather_timeout"`
	PerStreamTimeout  string  `yaml:"per_stream_timeout"`
	FallbackThreshold float64 `yaml:"fallback_threshold"`
	AdoptionSeed      int64   `yaml:"adoption_seed"` // 0 = time-seeded
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories,omitempty"`
	Level      string          `yaml:"level"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	policy := intel.DefaultPolicy()
	return &Config{
		Name:    "revintel",
		Version: "1.0.0",
		Retrieval: RetrievalConfig{
			Timeout: "30s",
		},
		Gather: GatherConfig{
			MinICPFit:         policy.MinICPFit,
			MaxTools:          policy.MaxTools,
			GatherTimeout:     policy.GatherTimeout.String(),
			PerStreamTimeout:  policy.PerStreamTimeout.String(),
			FallbackThreshold: policy.FallbackThreshold,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads config from the given path, applying defaults for missing
// fields and environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets deployment env vars win over file values.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("REVINTEL_RETRIEVAL_URL"); url != "" {
		c.Retrieval.BaseURL = url
	}
	if key := os.Getenv("REVINTEL_API_KEY"); key != "" {
		c.Retrieval.APIKey = key
	}
}

// Validate checks config consistency.
func (c *Config) Validate() error {
	if c.Gather.MinICPFit < 0 || c.Gather.MinICPFit > 1 {
		return fmt.Errorf("gather.min_icp_fit must be in [0,1], got %v", c.Gather.MinICPFit)
	}
	if c.Gather.FallbackThreshold < 0 || c.Gather.FallbackThreshold > 1 {
		return fmt.Errorf("gather.fallback_threshold must be in [0,1], got %v", c.Gather.FallbackThreshold)
	}
	if c.Gather.MaxTools <= 0 {
		return fmt.Errorf("gather.max_tools must be positive, got %d", c.Gather.MaxTools)
	}
	if _, err := parseDuration(c.Gather.GatherTimeout, 0); err != nil {
		return fmt.Errorf("gather.gather_timeout: %w", err)
	}
	if _, err := parseDuration(c.Gather.PerStreamTimeout, 0); err != nil {
		return fmt.Errorf("gather.per_stream_timeout: %w", err)
	}
	if c.Retrieval.BaseURL != "" && c.Retrieval.Timeout != "" {
		if _, err := parseDuration(c.Retrieval.Timeout, 0); err != nil {
			return fmt.Errorf("retrieval.timeout: %w", err)
		}
	}
	return nil
}

// GatherPolicy converts the config into the gatherer's policy, falling back
// to defaults for unset fields.
func (c *Config) GatherPolicy() intel.Policy {
	policy := intel.DefaultPolicy()
	if c.Gather.MinICPFit > 0 {
		policy.MinICPFit = c.Gather.MinICPFit
	}
	if c.Gather.MaxTools > 0 {
		policy.MaxTools = c.Gather.MaxTools
	}
	if c.Gather.FallbackThreshold > 0 {
		policy.FallbackThreshold = c.Gather.FallbackThreshold
	}
	policy.GatherTimeout, _ = parseDuration(c.Gather.GatherTimeout, policy.GatherTimeout)
	policy.PerStreamTimeout, _ = parseDuration(c.Gather.PerStreamTimeout, policy.PerStreamTimeout)
	return policy
}

// RetrievalTimeout parses the retrieval timeout with a 30s default.
func (c *Config) RetrievalTimeout() time.Duration {
	d, _ := parseDuration(c.Retrieval.Timeout, 30*time.Second)
	return d
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
