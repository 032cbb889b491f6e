package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all fractalis configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Coordination loop
	Coordinator CoordinatorConfig `yaml:"coordinator"`

	// Shared-directory store
	Store StoreConfig `yaml:"store"`

	// Periodic maintenance (cleanup, backups)
	Maintenance MaintenanceConfig `yaml:"maintenance"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CoordinatorConfig configures the coordination and report ticks.
type CoordinatorConfig struct {
	SharedDir            string `yaml:"shared_dir"`
	CoordinationInterval string `yaml:"coordination_interval"`
	ReportInterval       string `yaml:"report_interval"`

	// RandomSeed fixes the jitter source for reproducible scheduling.
	// Zero means seed from the clock.
	RandomSeed int64 `yaml:"random_seed"`

	Debug bool `yaml:"debug"`
}

// StoreConfig configures the store watcher.
type StoreConfig struct {
	WatcherEnabled bool   `yaml:"watcher_enabled"`
	WatchDebounce  string `yaml:"watch_debounce"`
}

// MaintenanceConfig configures the report-tick maintenance pass.
type MaintenanceConfig struct {
	CleanupEnabled     bool `yaml:"cleanup_enabled"`
	CleanupMaxAgeHours int  `yaml:"cleanup_max_age_hours"`
	BackupEnabled      bool `yaml:"backup_enabled"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"` // debug, info, warn, error
	Dir     string `yaml:"dir"`

	// Categories filters logging per category. Empty means all enabled.
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "fractalis",
		Version: "1.0.0",

		Coordinator: CoordinatorConfig{
			SharedDir:            "./shared",
			CoordinationInterval: "2s",
			ReportInterval:       "300s",
			RandomSeed:           0,
			Debug:                false,
		},

		Store: StoreConfig{
			WatcherEnabled: true,
			WatchDebounce:  "500ms",
		},

		Maintenance: MaintenanceConfig{
			CleanupEnabled:     true,
			CleanupMaxAgeHours: 24,
			BackupEnabled:      true,
		},

		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     ".fractalis/logs",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment variables override both.
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

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("FRACTALIS_SHARED_DIR"); dir != "" {
		c.Coordinator.SharedDir = dir
	}
	if interval := os.Getenv("FRACTALIS_INTERVAL"); interval != "" {
		c.Coordinator.CoordinationInterval = interval
	}
	if interval := os.Getenv("FRACTALIS_REPORT_INTERVAL"); interval != "" {
		c.Coordinator.ReportInterval = interval
	}
	if debug := os.Getenv("FRACTALIS_DEBUG"); debug != "" {
		if v, err := strconv.ParseBool(debug); err == nil {
			c.Coordinator.Debug = v
		}
	}
	if seed := os.Getenv("FRACTALIS_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Coordinator.RandomSeed = v
		}
	}
	if level := os.Getenv("FRACTALIS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetCoordinationInterval returns the coordination tick as a duration.
func (c *Config) GetCoordinationInterval() time.Duration {
	d, err := time.ParseDuration(c.Coordinator.CoordinationInterval)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// GetReportInterval returns the report tick as a duration.
func (c *Config) GetReportInterval() time.Duration {
	d, err := time.ParseDuration(c.Coordinator.ReportInterval)
	if err != nil || d <= 0 {
		return 300 * time.Second
	}
	return d
}

// GetWatchDebounce returns the watcher debounce window as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Store.WatchDebounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// Validate checks the configuration for values the daemon cannot start with.
func (c *Config) Validate() error {
	if c.Coordinator.SharedDir == "" {
		return fmt.Errorf("shared_dir not configured")
	}
	if _, err := time.ParseDuration(c.Coordinator.CoordinationInterval); err != nil {
		return fmt.Errorf("invalid coordination_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Coordinator.ReportInterval); err != nil {
		return fmt.Errorf("invalid report_interval: %w", err)
	}
	if c.Maintenance.CleanupMaxAgeHours < 0 {
		return fmt.Errorf("cleanup_max_age_hours must be >= 0")
	}
	return nil
}
