package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# TaskEasy configuration file
# Values can be overridden by .env, TASKEASY_* environment variables or CLI flags

# Board file (relative to project root, supports ~ expansion)
board_file = ".taskeasy/tasks.json"

# Storage backend: json, sqlite or memory
storage = "json"

# SQLite backend settings
sqlite_file = ".taskeasy/tasks.db"
sqlite_key = "taskeasy-tasks"
sqlite_timeout = "5s"

# Logging: debug, info, warn or error; text, json or logfmt
log_level = "warn"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
