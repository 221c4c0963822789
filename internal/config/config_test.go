package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "revintel" {
		t.Errorf("expected Name=revintel, got %s", cfg.Name)
	}
	if cfg.Gather.MinICPFit != 0.5 {
		t.Errorf("expected MinICPFit=0.5, got %v", cfg.Gather.MinICPFit)
	}
	if cfg.Gather.MaxTools != 10 {
		t.Errorf("expected MaxTools=10, got %d", cfg.Gather.MaxTools)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("REVINTEL_RETRIEVAL_URL", "")
	t.Setenv("REVINTEL_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Retrieval.BaseURL = "https://intel.example.com"
	cfg.Retrieval.APIKey = "test-key"
	cfg.Gather.MaxTools = 5

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Retrieval.BaseURL != "https://intel.example.com" {
		t.Errorf("expected BaseURL round-trip, got %s", loaded.Retrieval.BaseURL)
	}
	if loaded.Gather.MaxTools != 5 {
		t.Errorf("expected MaxTools=5, got %d", loaded.Gather.MaxTools)
	}
}

func TestConfig_LoadMissingFile(t *testing.T) {
	t.Setenv("REVINTEL_RETRIEVAL_URL", "")
	t.Setenv("REVINTEL_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config should load defaults, got error: %v", err)
	}
	if cfg.Gather.MaxTools != 10 {
		t.Errorf("expected default MaxTools=10, got %d", cfg.Gather.MaxTools)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REVINTEL_RETRIEVAL_URL", "http://override:8080")
	t.Setenv("REVINTEL_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Retrieval.BaseURL != "http://override:8080" {
		t.Errorf("expected env BaseURL override, got %s", cfg.Retrieval.BaseURL)
	}
	if cfg.Retrieval.APIKey != "env-key" {
		t.Errorf("expected env APIKey override, got %s", cfg.Retrieval.APIKey)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gather.MinICPFit = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for min_icp_fit > 1")
	}

	cfg = DefaultConfig()
	cfg.Gather.GatherTimeout = "not-a-duration"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for bad gather_timeout")
	}

	cfg = DefaultConfig()
	cfg.Gather.MaxTools = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for max_tools=0")
	}
}

func TestConfig_GatherPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gather.GatherTimeout = "90s"
	cfg.Gather.PerStreamTimeout = "5s"
	cfg.Gather.MaxTools = 3

	policy := cfg.GatherPolicy()
	if policy.GatherTimeout != 90*time.Second {
		t.Errorf("expected 90s gather timeout, got %v", policy.GatherTimeout)
	}
	if policy.PerStreamTimeout != 5*time.Second {
		t.Errorf("expected 5s per-stream timeout, got %v", policy.PerStreamTimeout)
	}
	if policy.MaxTools != 3 {
		t.Errorf("expected MaxTools=3, got %d", policy.MaxTools)
	}
}
