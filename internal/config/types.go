package config

import (
	"fmt"
	"strings"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Corrupt-entry policies.
const (
	OnCorruptFail  = "fail"
	OnCorruptReset = "reset"
)

// Default values.
const (
	DefaultStorage      = StorageFile
	DefaultSessionDir   = "" // resolved to <temp>/todo-sessions
	DefaultOnCorrupt    = OnCorruptFail
	DefaultSeedDefaults = true
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config holds the full configuration for todo.
type Config struct {
	// Storage backend: file, sqlite or memory.
	Storage string `toml:"storage"`

	// Session scoping
	SessionDir string `toml:"session_dir"`
	SessionID  string `toml:"session_id"`

	// What to do when the stored task list cannot be decoded: fail or reset.
	OnCorrupt string `toml:"on_corrupt"`

	// Seed the four default tasks when the session has no stored list.
	SeedDefaults bool `toml:"seed_defaults"`

	// Command run after every change to the task list.
	Hook string `toml:"hook"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogStderr     bool   `toml:"-"` // CLI only

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("invalid storage %q, must be one of: %s", c.Storage,
			strings.Join([]string{StorageFile, StorageSQLite, StorageMemory}, ", "))
	}
	switch c.OnCorrupt {
	case OnCorruptFail, OnCorruptReset:
	default:
		return fmt.Errorf("invalid on_corrupt %q, must be one of: %s, %s", c.OnCorrupt, OnCorruptFail, OnCorruptReset)
	}
	return nil
}

// ResetOnCorrupt reports whether a corrupt stored list should fall back to the default.
func (c *Config) ResetOnCorrupt() bool {
	return c.OnCorrupt == OnCorruptReset
}
