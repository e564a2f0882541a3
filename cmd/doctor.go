package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/taskeasy-go/internal/board"
	"github.com/nibzard/taskeasy-go/internal/config"
	"github.com/nibzard/taskeasy-go/internal/logging"
	"github.com/nibzard/taskeasy-go/internal/storage"
)

// doctorCommand checks the configuration and the stored board.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("taskeasy doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Println("TaskEasy Doctor")
	fmt.Println("===============")
	fmt.Println()

	problems := 0

	fmt.Printf("Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		problems++
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	fmt.Println("Config:")
	if len(cws.Files) == 0 {
		fmt.Println("  ✅ No config files, using defaults")
	}
	for _, f := range cws.Files {
		fmt.Printf("  ✅ %s\n", f)
	}
	if *verbose {
		writeConfigValues(os.Stdout, cws, "  ")
	}
	fmt.Println()

	fmt.Printf("Storage: %s\n", cfg.Storage)
	problems += checkStorage(cfg, *verbose)
	fmt.Println()

	if problems > 0 {
		fmt.Printf("Found %d problem(s).\n", problems)
		return fmt.Errorf("doctor found %d problem(s)", problems)
	}
	fmt.Println("All checks passed.")
	return nil
}

// checkStorage reports on the stored board and returns the number of
// problems found. It never writes to storage.
func checkStorage(cfg *config.Config, verbose bool) int {
	path := cfg.StoragePath()
	switch cfg.Backend() {
	case storage.BackendMemory:
		fmt.Println("  ✅ Memory storage, nothing is saved between runs")
		return 0
	case storage.BackendSQLite:
		fmt.Printf("  Database: %s (key %q)\n", path, cfg.SQLiteKey)
	default:
		fmt.Printf("  Board file: %s\n", path)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Println("  ✅ Not created yet, it is written on the first change")
		return 0
	} else if err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		return 1
	}

	problems := 0
	if cfg.Backend() == storage.BackendJSON {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("  ❌ Unreadable: %v\n", err)
			return 1
		}
		if errs := storage.ValidateDocument(data); len(errs) > 0 {
			fmt.Println("  ❌ Board file does not match the schema:")
			for _, e := range errs {
				fmt.Printf("     - %v\n", e)
			}
			problems++
		} else {
			fmt.Println("  ✅ Board file matches the schema")
		}
	}

	logger := logging.Discard()
	if verbose {
		logger = logging.New(cfg.LoggingOptions())
	}
	opts := append(cfg.StorageOptions(), storage.WithLogger(logger))
	adapter, err := storage.Open(cfg.Backend(), path, opts...)
	if err != nil {
		fmt.Printf("  ❌ Cannot open: %v\n", err)
		return problems + 1
	}
	if c, ok := adapter.(io.Closer); ok {
		defer c.Close()
	}

	stored := adapter.Load()
	// Load into a throwaway store so sanitizing never touches the real data.
	loaded := board.New(storage.NewMemory(stored...), board.WithLogger(logger)).List()
	fmt.Printf("  ✅ %d task(s) loaded\n", len(loaded))
	if dropped := len(stored) - len(loaded); dropped > 0 {
		fmt.Printf("  ❌ %d stored record(s) are invalid or duplicated and will be dropped on the next save\n", dropped)
		problems++
	}
	return problems
}

// configCommand prints the effective configuration or an example file.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("taskeasy config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example taskeasy.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}
	if file := cws.GetConfigFile(); file != "" {
		fmt.Printf("# config file: %s\n", file)
	}
	writeConfigValues(os.Stdout, cws, "")
	return nil
}

func writeConfigValues(w io.Writer, cws *config.ConfigWithSources, indent string) {
	cfg := cws.Config
	rows := []struct {
		key   string
		value any
	}{
		{"board_file", cfg.BoardFile},
		{"storage", cfg.Storage},
		{"sqlite_file", cfg.SQLiteFile},
		{"sqlite_key", cfg.SQLiteKey},
		{"sqlite_timeout", cfg.SQLiteTimeout.String()},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}
	for _, row := range rows {
		value := fmt.Sprintf("%v", row.value)
		if s, ok := row.value.(string); ok {
			value = fmt.Sprintf("%q", s)
		}
		line := fmt.Sprintf("%s%-14s = %s", indent, row.key, value)
		fmt.Fprintf(w, "%s  # %s\n", padRight(line, 60), cws.Sources[row.key])
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
