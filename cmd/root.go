// Package cmd implements the CLI command structure for taskeasy.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskeasy-go/internal/board"
	"github.com/nibzard/taskeasy-go/internal/config"
	"github.com/nibzard/taskeasy-go/internal/logging"
	"github.com/nibzard/taskeasy-go/internal/storage"
	"github.com/nibzard/taskeasy-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// stdin is read by confirmation prompts.
var stdin io.Reader = os.Stdin

// Run executes the taskeasy CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskeasy", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add", "new":
		return addCommand(cfg, remainingArgs)
	case "edit":
		return editCommand(cfg, remainingArgs)
	case "status", "mv":
		return statusCommand(cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(cfg, remainingArgs)
	case "stats":
		return statsCommand(cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "completion":
		return completionCommand(remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// app holds what the task commands share: the config, the logger and
// the open store.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	store  *board.Store
	close  func() error
}

// openApp opens the configured storage backend and loads the board.
func openApp(cfg *config.Config) (*app, error) {
	logger := logging.New(cfg.LoggingOptions())
	opts := append(cfg.StorageOptions(), storage.WithLogger(logger))
	adapter, err := storage.Open(cfg.Backend(), cfg.StoragePath(), opts...)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	a := &app{
		cfg:    cfg,
		logger: logger,
		store:  board.New(adapter, board.WithLogger(logger)),
		close:  func() error { return nil },
	}
	if c, ok := adapter.(io.Closer); ok {
		a.close = c.Close
	}
	logger.Debug("opened board", "storage", cfg.Storage, "path", cfg.StoragePath(), "tasks", len(a.store.List()))
	return a, nil
}

// withApp runs fn against an open app and closes it afterwards.
func withApp(cfg *config.Config, fn func(a *app) error) (err error) {
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing storage: %w", cerr)
		}
	}()
	return fn(a)
}

// tuiCommand launches the interactive board.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskeasy tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return withApp(cfg, func(a *app) error {
		source := cfg.StoragePath()
		if source == "" {
			source = "memory (not saved)"
		}
		return ui.RunTUI(ctx, a.store, ui.WithSource(source))
	})
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("taskeasy version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "TaskEasy - Lightweight task management for agile teams")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskeasy [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <title> [-d desc] [-p priority] [-s status]   Create a task")
	fmt.Fprintln(w, "  edit <id> [-t title] [-d desc] [-p priority] [-s status]")
	fmt.Fprintln(w, "                                                    Update a task")
	fmt.Fprintln(w, "  status <id> <status>                              Change a task's status")
	fmt.Fprintln(w, "  rm <id> [-f]                                      Delete a task")
	fmt.Fprintln(w, "  ls [status] [--json] [-v]                         List tasks (default command)")
	fmt.Fprintln(w, "  stats [--json]                                    Show board statistics")
	fmt.Fprintln(w, "  tui                                               Launch the interactive board")
	fmt.Fprintln(w, "  doctor                                            Check config and stored data")
	fmt.Fprintln(w, "  config [--example]                                Show the effective configuration")
	fmt.Fprintln(w, "  completion <bash|zsh|fish>                        Print a shell completion script")
	fmt.Fprintln(w, "  version                                           Show version information")
	fmt.Fprintln(w, "  help                                              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Task IDs may be shortened to any unique prefix.")
	fmt.Fprintln(w, "Priorities: "+joinValues(priorityNames()))
	fmt.Fprintln(w, "Statuses:   "+joinValues(statusNames()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func joinValues(values []string) string {
	return strings.Join(values, ", ")
}
