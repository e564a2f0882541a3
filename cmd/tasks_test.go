package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/taskeasy-go/internal/storage"
	"github.com/nibzard/taskeasy-go/internal/task"
	"github.com/nibzard/taskeasy-go/internal/ui"
	"github.com/nibzard/taskeasy-go/internal/view"
)

func newTestFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestTaskLifecycle(t *testing.T) {
	dir := isolate(t)

	id := createdID(t, mustRun(t, "add", "Write", "docs", "-p", "high", "-d", "for the CLI"))

	out := mustRun(t, "ls")
	for _, want := range []string{"To Do (1)", "In Progress (0)", "Done (0)", "Write docs", "High", shortID(id)} {
		if !strings.Contains(out, want) {
			t.Errorf("ls output does not contain %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "status", id[:6], "done")
	if !strings.Contains(out, "Updated task "+shortID(id)) || !strings.Contains(out, "Done") {
		t.Errorf("status output = %q", out)
	}

	out = mustRun(t, "stats")
	for _, want := range []string{"Total Tasks:  1  (1 high priority)", "Completed:    1  (100% completion rate)"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output does not contain %q:\n%s", want, out)
		}
	}

	mustRun(t, "edit", shortID(id), "-t", "Write better docs", "-d", "")

	var listed []task.Task
	if err := json.Unmarshal([]byte(mustRun(t, "ls", "--json")), &listed); err != nil {
		t.Fatalf("decode ls --json: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("ls --json returned %d tasks", len(listed))
	}
	got := listed[0]
	if got.ID != id || got.Title != "Write better docs" || got.Description != "" || got.Status != task.StatusDone {
		t.Errorf("stored task = %+v", got)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".taskeasy", "tasks.json"))
	if err != nil {
		t.Fatalf("board file: %v", err)
	}
	if errs := storage.ValidateDocument(data); len(errs) > 0 {
		t.Errorf("board file does not match the schema: %v", errs)
	}

	mustRun(t, "rm", id, "-f")
	if out := mustRun(t, "ls"); !strings.Contains(out, ui.EmptyListText) {
		t.Errorf("ls after rm = %q", out)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "add", strings.Repeat("x", task.MaxTitleLength+1))
	var ve *task.ValidationError
	if !errors.As(err, &ve) || ve.Violations[0] != task.MsgTitleTooLong {
		t.Errorf("long title error = %v", err)
	}

	if _, err := runCLI(t, "add", "ok", "-p", "urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
	if _, err := runCLI(t, "add"); err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("expected usage error, got %v", err)
	}
	if _, err := runCLI(t, "add", " ", "-d", "blank"); !errors.Is(err, task.ErrInvalid) {
		t.Errorf("blank title error = %v", err)
	}

	if out := mustRun(t, "ls"); !strings.Contains(out, ui.EmptyListText) {
		t.Errorf("rejected adds were stored:\n%s", out)
	}
}

func TestAddAcceptsStatusAliases(t *testing.T) {
	isolate(t)
	mustRun(t, "add", "In flight", "-s", "doing")
	out := mustRun(t, "ls", "in-progress")
	if !strings.Contains(out, "In flight") {
		t.Errorf("ls in-progress = %q", out)
	}
	if out := mustRun(t, "ls", "--status", "done"); strings.Contains(out, "In flight") {
		t.Errorf("done filter shows an in-progress task:\n%s", out)
	}
}

func TestAddTitleAfterTerminator(t *testing.T) {
	isolate(t)
	id := createdID(t, mustRun(t, "add", "-p", "high", "--", "fix", "-v"))

	var listed []task.Task
	if err := json.Unmarshal([]byte(mustRun(t, "ls", "--json")), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != id || listed[0].Title != "fix -v" || listed[0].Priority != task.PriorityHigh {
		t.Errorf("stored = %+v", listed)
	}
}

func TestListOrdersByPriority(t *testing.T) {
	isolate(t)
	mustRun(t, "add", "Low task", "-p", "low")
	mustRun(t, "add", "High task", "-p", "high")
	mustRun(t, "add", "Medium task")

	var listed []task.Task
	if err := json.Unmarshal([]byte(mustRun(t, "ls", "--json")), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var titles []string
	for _, tk := range listed {
		titles = append(titles, tk.Title)
	}
	if strings.Join(titles, ",") != "High task,Medium task,Low task" {
		t.Errorf("order = %v", titles)
	}

	var stats view.Stats
	if err := json.Unmarshal([]byte(mustRun(t, "stats", "--json")), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 3 || stats.ToDo != 3 || stats.HighPriority != 1 || stats.CompletionRate != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEditAndStatusErrors(t *testing.T) {
	isolate(t)
	id := createdID(t, mustRun(t, "add", "Target"))

	if _, err := runCLI(t, "edit", id); err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Errorf("edit without flags error = %v", err)
	}
	if _, err := runCLI(t, "edit", "zzzz", "-t", "x"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("edit unknown id error = %v", err)
	}
	if _, err := runCLI(t, "status", id, "blocked"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := runCLI(t, "status", id); err == nil {
		t.Error("expected usage error")
	}
	if _, err := runCLI(t, "edit", id, "-t", " "); !errors.Is(err, task.ErrInvalid) {
		t.Errorf("blank title edit error = %v", err)
	}
}

func TestRmAsksForConfirmation(t *testing.T) {
	isolate(t)
	id := createdID(t, mustRun(t, "add", "Keep me"))

	withStdin(t, "n\n")
	out := mustRun(t, "rm", id)
	if !strings.Contains(out, "Are you sure you want to delete this task?") || !strings.Contains(out, "Cancelled.") {
		t.Errorf("rm output = %q", out)
	}
	if out := mustRun(t, "ls"); !strings.Contains(out, "Keep me") {
		t.Fatal("declined rm deleted the task")
	}

	withStdin(t, "y\n")
	out = mustRun(t, "rm", id)
	if !strings.Contains(out, "Deleted task "+shortID(id)) {
		t.Errorf("rm output = %q", out)
	}
	if _, err := runCLI(t, "rm", id, "-f"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("second rm error = %v", err)
	}
}

func TestSQLiteBackend(t *testing.T) {
	dir := isolate(t)

	mustRun(t, "--storage", "sqlite", "add", "Stored in sqlite")
	if _, err := os.Stat(filepath.Join(dir, ".taskeasy", "tasks.db")); err != nil {
		t.Fatalf("database not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".taskeasy", "tasks.json")); !os.IsNotExist(err) {
		t.Errorf("json board written for sqlite storage: %v", err)
	}

	t.Setenv("TASKEASY_STORAGE", "sqlite")
	out := mustRun(t, "ls")
	if !strings.Contains(out, "Stored in sqlite") {
		t.Errorf("ls over sqlite = %q", out)
	}

	out = mustRun(t, "--sqlite-key", "other", "ls")
	if !strings.Contains(out, ui.EmptyListText) {
		t.Errorf("separate key shares tasks:\n%s", out)
	}
}

func TestMemoryBackendDoesNotPersist(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--storage", "memory", "add", "Ephemeral")
	if _, err := os.Stat(filepath.Join(dir, ".taskeasy")); !os.IsNotExist(err) {
		t.Errorf("memory storage wrote files: %v", err)
	}
	if out := mustRun(t, "--storage", "memory", "ls"); !strings.Contains(out, ui.EmptyListText) {
		t.Errorf("memory storage persisted:\n%s", out)
	}
}
