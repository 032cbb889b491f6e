package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "fractalis" {
		t.Errorf("expected Name=fractalis, got %s", cfg.Name)
	}
	if cfg.Coordinator.SharedDir != "./shared" {
		t.Errorf("expected SharedDir=./shared, got %s", cfg.Coordinator.SharedDir)
	}
	if cfg.Coordinator.CoordinationInterval != "2s" {
		t.Errorf("expected CoordinationInterval=2s, got %s", cfg.Coordinator.CoordinationInterval)
	}
	if cfg.Coordinator.ReportInterval != "300s" {
		t.Errorf("expected ReportInterval=300s, got %s", cfg.Coordinator.ReportInterval)
	}
	if !cfg.Maintenance.CleanupEnabled {
		t.Error("expected cleanup enabled by default")
	}
	if cfg.Maintenance.CleanupMaxAgeHours != 24 {
		t.Errorf("expected CleanupMaxAgeHours=24, got %d", cfg.Maintenance.CleanupMaxAgeHours)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	// Ensure no env vars interfere
	t.Setenv("FRACTALIS_SHARED_DIR", "")
	t.Setenv("FRACTALIS_INTERVAL", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Coordinator.SharedDir = "/tmp/eco"
	cfg.Coordinator.CoordinationInterval = "5s"
	cfg.Store.WatcherEnabled = false

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Coordinator.SharedDir != "/tmp/eco" {
		t.Errorf("expected SharedDir=/tmp/eco, got %s", loaded.Coordinator.SharedDir)
	}
	if loaded.Coordinator.CoordinationInterval != "5s" {
		t.Errorf("expected CoordinationInterval=5s, got %s", loaded.Coordinator.CoordinationInterval)
	}
	if loaded.Store.WatcherEnabled {
		t.Error("expected WatcherEnabled=false after round-trip")
	}
}

func TestConfig_LoadMissingFile(t *testing.T) {
	t.Setenv("FRACTALIS_SHARED_DIR", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file should yield defaults, got error: %v", err)
	}
	if cfg.Coordinator.SharedDir != "./shared" {
		t.Errorf("expected default SharedDir, got %s", cfg.Coordinator.SharedDir)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FRACTALIS_SHARED_DIR", "/var/fractal")
	t.Setenv("FRACTALIS_INTERVAL", "10s")
	t.Setenv("FRACTALIS_DEBUG", "true")
	t.Setenv("FRACTALIS_SEED", "42")
	t.Setenv("FRACTALIS_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.Coordinator.SharedDir != "/var/fractal" {
		t.Errorf("expected SharedDir=/var/fractal, got %s", cfg.Coordinator.SharedDir)
	}
	if cfg.Coordinator.CoordinationInterval != "10s" {
		t.Errorf("expected CoordinationInterval=10s, got %s", cfg.Coordinator.CoordinationInterval)
	}
	if !cfg.Coordinator.Debug {
		t.Error("expected Debug=true from env")
	}
	if cfg.Coordinator.RandomSeed != 42 {
		t.Errorf("expected RandomSeed=42, got %d", cfg.Coordinator.RandomSeed)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config valid, got error: %v", err)
	}

	cfg.Coordinator.SharedDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty shared_dir")
	}

	cfg = DefaultConfig()
	cfg.Coordinator.CoordinationInterval = "not-a-duration"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for bad coordination_interval")
	}

	cfg = DefaultConfig()
	cfg.Maintenance.CleanupMaxAgeHours = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative cleanup age")
	}
}

func TestConfig_DurationHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.GetCoordinationInterval(); got != 2*time.Second {
		t.Errorf("expected 2s coordination interval, got %v", got)
	}
	if got := cfg.GetReportInterval(); got != 300*time.Second {
		t.Errorf("expected 300s report interval, got %v", got)
	}
	if got := cfg.GetWatchDebounce(); got != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", got)
	}

	// Garbage values fall back rather than break the tickers.
	cfg.Coordinator.CoordinationInterval = "garbage"
	if got := cfg.GetCoordinationInterval(); got != 2*time.Second {
		t.Errorf("expected 2s fallback, got %v", got)
	}
	cfg.Coordinator.ReportInterval = "-5s"
	if got := cfg.GetReportInterval(); got != 300*time.Second {
		t.Errorf("expected 300s fallback for negative interval, got %v", got)
	}
}
