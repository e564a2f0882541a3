package config

import (
	"time"

	"github.com/nibzard/taskeasy-go/internal/logging"
	"github.com/nibzard/taskeasy-go/internal/storage"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceDotEnv   ConfigSource = ".env"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultBoardFile  = ".taskeasy/tasks.json"
	DefaultStorage    = string(storage.BackendJSON)
	DefaultSQLiteFile = ".taskeasy/tasks.db"
	DefaultSQLiteKey  = storage.DefaultKey
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for taskeasy.
type Config struct {
	// Storage
	BoardFile     string        `toml:"board_file" validate:"required"`
	Storage       string        `toml:"storage" validate:"oneof=json sqlite memory"`
	SQLiteFile    string        `toml:"sqlite_file" validate:"required"`
	SQLiteKey     string        `toml:"sqlite_key" validate:"required,max=128"`
	SQLiteTimeout time.Duration `toml:"sqlite_timeout" validate:"gt=0"`

	// Logging configuration
	LogLevel      string `toml:"log_level" validate:"oneof=debug info warn warning error fatal"`
	LogFormat     string `toml:"log_format" validate:"oneof=text json logfmt"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// Backend returns the configured storage backend.
func (c *Config) Backend() storage.Backend {
	return storage.Backend(c.Storage)
}

// StoragePath returns the file the configured backend reads and writes.
// It is empty for the memory backend.
func (c *Config) StoragePath() string {
	switch c.Backend() {
	case storage.BackendSQLite:
		return c.SQLiteFile
	case storage.BackendMemory:
		return ""
	default:
		return c.BoardFile
	}
}

// StorageOptions returns the backend options implied by the config.
func (c *Config) StorageOptions() []storage.Option {
	return []storage.Option{
		storage.WithKey(c.SQLiteKey),
		storage.WithTimeout(c.SQLiteTimeout),
	}
}

// LoggingOptions returns the logger settings.
func (c *Config) LoggingOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.LogLevel
	opts.Format = c.LogFormat
	opts.ReportTimestamp = c.LogTimestamps
	opts.ReportCaller = c.LogCaller
	return opts
}
