package config

import "flag"

// flagFields maps flag names to source field names.
var flagFields = map[string]string{
	"board":          "board_file",
	"storage":        "storage",
	"sqlite-file":    "sqlite_file",
	"sqlite-key":     "sqlite_key",
	"sqlite-timeout": "sqlite_timeout",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args. Flags default
// to the values already in cfg, so unset flags leave them alone.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("taskeasy", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.BoardFile, "board", cfg.BoardFile, "Path to the board file")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (json, sqlite, memory)")
	fs.StringVar(&cfg.SQLiteFile, "sqlite-file", cfg.SQLiteFile, "Path to the SQLite database")
	fs.StringVar(&cfg.SQLiteKey, "sqlite-key", cfg.SQLiteKey, "Key the board is stored under in SQLite")
	fs.DurationVar(&cfg.SQLiteTimeout, "sqlite-timeout", cfg.SQLiteTimeout, "Timeout for each SQLite load or save")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

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
