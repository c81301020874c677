// Package config loads runtime configuration from an optional YAML
// file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	// EnvBindingsDir overrides the bindings override directory.
	EnvBindingsDir = "XRIZER_BINDINGS_DIR"

	// EnvLogFile overrides the event log path.
	EnvLogFile = "XRIZER_LOG_FILE"

	// EnvSyncTimeout overrides the per-cycle backend timeout.
	EnvSyncTimeout = "XRIZER_SYNC_TIMEOUT"
)

// Config is the runtime configuration.
type Config struct {
	// ManifestPath locates the action manifest document.
	ManifestPath string `yaml:"manifest_path"`

	// DefaultBindingsDir is the bundled bindings source directory.
	DefaultBindingsDir string `yaml:"default_bindings_dir"`

	// BindingsDir is the operator override source; documents here shadow
	// the default source per profile, wholesale.
	BindingsDir string `yaml:"bindings_dir"`

	// LogFile is the CBOR event log path. Empty disables the file sink.
	LogFile string `yaml:"log_file"`

	// SyncTimeout bounds the backend queries of one sync cycle.
	SyncTimeout time.Duration `yaml:"sync_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SyncTimeout: 50 * time.Millisecond,
	}
}

// Load reads the YAML file at path (if non-empty) over the defaults and
// applies environment overrides on top. A missing file with a non-empty
// path is an error; an empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv layers the environment overrides onto cfg.
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBindingsDir); v != "" {
		c.BindingsDir = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvSyncTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvSyncTimeout, err)
		}
		c.SyncTimeout = d
	}
	if c.SyncTimeout <= 0 {
		c.SyncTimeout = Default().SyncTimeout
	}
	return nil
}
