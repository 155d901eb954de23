package config

import (
	"flag"
)

// flagFields maps flag names to config field names for source tracking.
var flagFields = map[string]string{
	"storage":        "storage",
	"session-dir":    "session_dir",
	"session":        "session_id",
	"on-corrupt":     "on_corrupt",
	"seed-defaults":  "seed_defaults",
	"hook":           "hook",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args.
// If sources is non-nil, explicitly set flags are recorded as SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (file|sqlite|memory)")
	fs.StringVar(&cfg.SessionDir, "session-dir", cfg.SessionDir, "Base directory for session state")
	fs.StringVar(&cfg.SessionID, "session", cfg.SessionID, "Session identifier (default: parent process)")
	fs.StringVar(&cfg.OnCorrupt, "on-corrupt", cfg.OnCorrupt, "Corrupt stored list policy (fail|reset)")
	fs.BoolVar(&cfg.SeedDefaults, "seed-defaults", cfg.SeedDefaults, "Seed default tasks for a new session")
	fs.StringVar(&cfg.Hook, "hook", cfg.Hook, "Command to run after each change to the task list")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller in logs")
	fs.BoolVar(&cfg.LogStderr, "log-stderr", cfg.LogStderr, "Write logs to stderr instead of the session log file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
