package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	name  string
	field string
	set   func(cfg *Config, value string) error
}

var envBindings = []envBinding{
	{"TASKEASY_BOARD", "board_file", func(cfg *Config, v string) error {
		cfg.BoardFile = v
		return nil
	}},
	{"TASKEASY_STORAGE", "storage", func(cfg *Config, v string) error {
		cfg.Storage = v
		return nil
	}},
	{"TASKEASY_SQLITE_FILE", "sqlite_file", func(cfg *Config, v string) error {
		cfg.SQLiteFile = v
		return nil
	}},
	{"TASKEASY_SQLITE_KEY", "sqlite_key", func(cfg *Config, v string) error {
		cfg.SQLiteKey = v
		return nil
	}},
	{"TASKEASY_SQLITE_TIMEOUT", "sqlite_timeout", func(cfg *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		cfg.SQLiteTimeout = d
		return nil
	}},
	{"TASKEASY_LOG_LEVEL", "log_level", func(cfg *Config, v string) error {
		cfg.LogLevel = v
		return nil
	}},
	{"TASKEASY_LOG_FORMAT", "log_format", func(cfg *Config, v string) error {
		cfg.LogFormat = v
		return nil
	}},
	{"TASKEASY_LOG_TIMESTAMPS", "log_timestamps", func(cfg *Config, v string) error {
		cfg.LogTimestamps = boolFromString(v)
		return nil
	}},
	{"TASKEASY_LOG_CALLER", "log_caller", func(cfg *Config, v string) error {
		cfg.LogCaller = boolFromString(v)
		return nil
	}},
}

// loadFromEnv overrides config from environment variables. Variables
// missing from the process environment are looked up in dotenv.
func loadFromEnv(cfg *Config, dotenv map[string]string, sources map[string]ConfigSource) error {
	for _, b := range envBindings {
		v, source := lookupEnv(b.name, dotenv)
		if v == "" {
			continue
		}
		if err := b.set(cfg, v); err != nil {
			return fmt.Errorf("invalid %s: %w", b.name, err)
		}
		if sources != nil {
			sources[b.field] = source
		}
	}
	return nil
}

func lookupEnv(name string, dotenv map[string]string) (string, ConfigSource) {
	if v, ok := os.LookupEnv(name); ok {
		return v, SourceEnv
	}
	return dotenv[name], SourceDotEnv
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
