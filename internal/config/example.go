package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by TODO_* environment variables or CLI flags

# Storage backend: file (one JSON document per key), sqlite, or memory
storage = "file"

# Base directory for session state (default: <temp>/todo-sessions)
# session_dir = "~/.cache/todo-sessions"

# Session identifier (default: TODO_SESSION, then the parent process id)
# session_id = "work"

# Stored task list that cannot be decoded: fail or reset to the default list
on_corrupt = "fail"

# Seed "Eat Breakfast", "Go to Work", ... when a session starts empty
seed_defaults = true

# Command run after each change, as: <hook> <session> <open> <done>
# The task list is passed as JSON on stdin.
# hook = "~/.todo/on-change.sh"

# Logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
