package config

import (
	"os"
	"strings"
)

// envBindings maps environment variables to config field names.
var envBindings = []struct {
	env   string
	field string
}{
	{"TODO_STORAGE", "storage"},
	{"TODO_SESSION_DIR", "session_dir"},
	{"TODO_SESSION", "session_id"},
	{"TODO_ON_CORRUPT", "on_corrupt"},
	{"TODO_SEED_DEFAULTS", "seed_defaults"},
	{"TODO_HOOK", "hook"},
	{"TODO_LOG_LEVEL", "log_level"},
	{"TODO_LOG_FORMAT", "log_format"},
	{"TODO_LOG_TIMESTAMPS", "log_timestamps"},
	{"TODO_LOG_CALLER", "log_caller"},
}

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v, ok := os.LookupEnv(b.env)
		if !ok || v == "" {
			continue
		}
		if !setField(cfg, b.field, v) {
			continue
		}
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}

// setField assigns a string value to the named field, converting as needed.
func setField(cfg *Config, field, value string) bool {
	switch field {
	case "storage":
		cfg.Storage = value
	case "session_dir":
		cfg.SessionDir = value
	case "session_id":
		cfg.SessionID = value
	case "on_corrupt":
		cfg.OnCorrupt = value
	case "seed_defaults":
		cfg.SeedDefaults = boolFromString(value)
	case "hook":
		cfg.Hook = value
	case "log_level":
		cfg.LogLevel = value
	case "log_format":
		cfg.LogFormat = value
	case "log_timestamps":
		cfg.LogTimestamps = boolFromString(value)
	case "log_caller":
		cfg.LogCaller = boolFromString(value)
	default:
		return false
	}
	return true
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
