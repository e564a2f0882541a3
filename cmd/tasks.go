package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nibzard/taskeasy-go/internal/board"
	"github.com/nibzard/taskeasy-go/internal/config"
	"github.com/nibzard/taskeasy-go/internal/task"
	"github.com/nibzard/taskeasy-go/internal/ui"
	"github.com/nibzard/taskeasy-go/internal/view"
)

// addCommand creates a task.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskeasy add", flag.ContinueOnError)
	description := fs.String("d", "", "Task description")
	fs.StringVar(description, "description", "", "Task description")
	priority := fs.String("p", string(task.PriorityMedium), "Priority (low, medium, high)")
	fs.StringVar(priority, "priority", string(task.PriorityMedium), "Priority (low, medium, high)")
	status := fs.String("s", string(task.StatusToDo), "Status (to-do, in-progress, done)")
	fs.StringVar(status, "status", string(task.StatusToDo), "Status (to-do, in-progress, done)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return errors.New("usage: taskeasy add <title> [-d desc] [-p priority] [-s status]")
	}

	p, err := task.ParsePriority(*priority)
	if err != nil {
		return err
	}
	s, err := task.ParseStatus(*status)
	if err != nil {
		return err
	}
	fields := task.Fields{
		Title:       task.Ptr(strings.Join(positional, " ")),
		Description: description,
		Priority:    &p,
		Status:      &s,
	}

	return withApp(cfg, func(a *app) error {
		t, err := a.store.Create(fields)
		if err != nil && !errors.Is(err, board.ErrPersist) {
			return err
		}
		fmt.Printf("Created task %s\n", t.ID)
		return err
	})
}

// editCommand updates the fields given as flags.
func editCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskeasy edit", flag.ContinueOnError)
	title := fs.String("t", "", "New title")
	fs.StringVar(title, "title", "", "New title")
	description := fs.String("d", "", "New description")
	fs.StringVar(description, "description", "", "New description")
	priority := fs.String("p", "", "New priority (low, medium, high)")
	fs.StringVar(priority, "priority", "", "New priority (low, medium, high)")
	status := fs.String("s", "", "New status (to-do, in-progress, done)")
	fs.StringVar(status, "status", "", "New status (to-do, in-progress, done)")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: taskeasy edit <id> [-t title] [-d desc] [-p priority] [-s status]")
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	var patch task.Fields
	if set["t"] || set["title"] {
		patch.Title = title
	}
	if set["d"] || set["description"] {
		patch.Description = description
	}
	if set["p"] || set["priority"] {
		p, err := task.ParsePriority(*priority)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if set["s"] || set["status"] {
		s, err := task.ParseStatus(*status)
		if err != nil {
			return err
		}
		patch.Status = &s
	}
	if patch.Empty() {
		return errors.New("nothing to update: pass at least one of -t, -d, -p, -s")
	}

	return withApp(cfg, func(a *app) error {
		return updateTask(a, positional[0], patch)
	})
}

// statusCommand moves a task to another status.
func statusCommand(cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: taskeasy status <id> <status>")
	}
	s, err := task.ParseStatus(args[1])
	if err != nil {
		return err
	}
	return withApp(cfg, func(a *app) error {
		return updateTask(a, args[0], task.Fields{Status: &s})
	})
}

func updateTask(a *app, prefix string, patch task.Fields) error {
	id, err := a.store.Resolve(prefix)
	if err != nil {
		return err
	}
	t, err := a.store.Update(id, patch)
	if err != nil && !errors.Is(err, board.ErrPersist) {
		return err
	}
	fmt.Printf("Updated task %s (%s, %s)\n", shortID(t.ID), t.Priority.Label(), t.Status.Label())
	return err
}

// rmCommand deletes a task after confirmation.
func rmCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskeasy rm", flag.ContinueOnError)
	force := fs.Bool("f", false, "Delete without asking")
	fs.BoolVar(force, "force", false, "Delete without asking")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: taskeasy rm <id> [-f]")
	}

	return withApp(cfg, func(a *app) error {
		id, err := a.store.Resolve(positional[0])
		if err != nil {
			return err
		}
		t, _ := a.store.Get(id)
		if !*force && !confirm(stdin, os.Stdout, fmt.Sprintf("Are you sure you want to delete this task? %q [y/N]: ", t.Title)) {
			fmt.Println("Cancelled.")
			return nil
		}
		err = a.store.Delete(id)
		if err != nil && !errors.Is(err, board.ErrPersist) {
			return err
		}
		fmt.Printf("Deleted task %s\n", shortID(id))
		return err
	})
}

// confirm asks question on w and reports whether the answer read from r
// is yes.
func confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprint(w, question)
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(w)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// lsCommand lists tasks sorted by priority and age.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskeasy ls", flag.ContinueOnError)
	statusFilter := fs.String("status", "", "Filter by status (to-do, in-progress, done)")
	asJSON := fs.Bool("json", false, "Print tasks as JSON")
	verbose := fs.Bool("v", false, "Show more details")

	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 1 {
		return fmt.Errorf("unexpected arguments: %v", positional[1:])
	}
	if len(positional) == 1 && *statusFilter == "" {
		*statusFilter = positional[0]
	}

	var status task.Status
	if *statusFilter != "" {
		if status, err = task.ParseStatus(*statusFilter); err != nil {
			return err
		}
	}

	return withApp(cfg, func(a *app) error {
		all := a.store.List()
		tasks := view.Sort(all)
		if status != "" {
			tasks = view.ByStatus(all, status)
		}

		if *asJSON {
			return writeJSON(os.Stdout, tasks)
		}
		if status != "" {
			printTaskList(tasks, *verbose)
			return nil
		}
		if len(tasks) == 0 {
			fmt.Println(ui.EmptyListText)
			return nil
		}
		for _, tab := range view.Tabs(all)[1:] {
			printTasksByStatus(tab, *verbose)
		}
		return nil
	})
}

// statsCommand prints the board statistics.
func statsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskeasy stats", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print statistics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return withApp(cfg, func(a *app) error {
		stats := view.Compute(a.store.List())
		if *asJSON {
			return writeJSON(os.Stdout, stats)
		}
		printStats(stats)
		return nil
	})
}

func printStats(s view.Stats) {
	total := fmt.Sprintf("Total Tasks:  %d", s.Total)
	if s.HighPriority > 0 {
		total += fmt.Sprintf("  (%d high priority)", s.HighPriority)
	}
	fmt.Println(total)
	fmt.Printf("To Do:        %d\n", s.ToDo)
	fmt.Printf("In Progress:  %d\n", s.InProgress)
	completed := fmt.Sprintf("Completed:    %d", s.Done)
	if s.Total > 0 {
		completed += fmt.Sprintf("  (%d%% completion rate)", s.CompletionRate)
	}
	fmt.Println(completed)
}

// printTasksByStatus prints one status section.
func printTasksByStatus(tab view.Tab, verbose bool) {
	fmt.Println(tab.Label())
	if len(tab.Tasks) == 0 {
		fmt.Println("  (none)")
	}
	printTaskList(tab.Tasks, verbose)
	fmt.Println()
}

func printTaskList(tasks []task.Task, verbose bool) {
	for _, t := range tasks {
		printTask(t, verbose)
	}
}

func printTask(t task.Task, verbose bool) {
	fmt.Printf("  %s  %-6s  %-11s  %s\n", shortID(t.ID), t.Priority.Label(), t.Status.Label(), t.Title)
	if !verbose {
		return
	}
	fmt.Printf("      id:      %s\n", t.ID)
	if t.Description != "" {
		fmt.Printf("      details: %s\n", t.Description)
	}
	fmt.Printf("      created: %s\n", t.CreatedAt.Local().Format(time.RFC3339))
	fmt.Printf("      updated: %s\n", t.UpdatedAt.Local().Format(time.RFC3339))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// parseInterspersed parses flags that appear before, between or after
// positional arguments and returns the positional arguments in order.
// Everything after a "--" terminator is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func priorityNames() []string {
	names := make([]string, len(task.Priorities))
	for i, p := range task.Priorities {
		names[i] = string(p)
	}
	return names
}

func statusNames() []string {
	names := make([]string, len(task.Statuses))
	for i, s := range task.Statuses {
		names[i] = string(s)
	}
	return names
}
