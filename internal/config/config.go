// Package config manages shipout configuration.
//
// Configuration comes from an optional YAML file plus command-line flags;
// flags win. The config file mainly exists so repeated deploys of the same
// project do not need the full flag set every time.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultBackupKeep is how many backup archives are retained when the
// config does not say otherwise.
const DefaultBackupKeep = 5

// Config represents the complete shipout configuration.
type Config struct {
	Paths  PathsConfig  `yaml:"paths"`
	Backup BackupConfig `yaml:"backup"`
	Log    LogConfig    `yaml:"log"`
}

// PathsConfig configures the directories a deployment operates on.
type PathsConfig struct {
	// Source is the build output directory to promote
	Source string `yaml:"source"`

	// Dest is the destination root the bundle is merged into
	Dest string `yaml:"dest"`

	// Manifest is the manifest file location; defaults to
	// <dest>/.shipout-manifest.json
	Manifest string `yaml:"manifest"`
}

// BackupConfig configures pre-deployment backup archives.
type BackupConfig struct {
	// Enabled archives the previously deployed tree before removing it
	Enabled bool `yaml:"enabled"`

	// Dir is where archives are written; defaults to <dest>/.shipout/backups
	Dir string `yaml:"dir"`

	// Keep is how many archives to retain, oldest pruned first
	Keep int `yaml:"keep"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with all defaults applied and no paths set.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

// expandEnv expands environment variables in all path fields.
func (c *Config) expandEnv() {
	c.Paths.Source = os.ExpandEnv(c.Paths.Source)
	c.Paths.Dest = os.ExpandEnv(c.Paths.Dest)
	c.Paths.Manifest = os.ExpandEnv(c.Paths.Manifest)
	c.Backup.Dir = os.ExpandEnv(c.Backup.Dir)
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Backup.Keep <= 0 {
		c.Backup.Keep = DefaultBackupKeep
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for errors. Called after flags have
// been merged in, so source and dest must be present by now.
func (c *Config) Validate() error {
	if c.Paths.Source == "" {
		return fmt.Errorf("paths.source is required (build output directory)")
	}
	if c.Paths.Dest == "" {
		return fmt.Errorf("paths.dest is required (destination root)")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	return nil
}

// ManifestPath returns the manifest file location.
func (c *Config) ManifestPath() string {
	if c.Paths.Manifest != "" {
		return c.Paths.Manifest
	}
	return filepath.Join(c.Paths.Dest, ".shipout-manifest.json")
}

// BackupDir returns the backup archive directory.
func (c *Config) BackupDir() string {
	if c.Backup.Dir != "" {
		return c.Backup.Dir
	}
	return filepath.Join(c.Paths.Dest, ".shipout", "backups")
}
