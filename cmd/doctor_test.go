package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDoctorFreshProject(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "doctor")
	if err != nil {
		t.Fatalf("doctor error = %v\n%s", err, out)
	}
	for _, want := range []string{"TaskEasy Doctor", "No config files, using defaults", "Not created yet", "All checks passed."} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output does not contain %q:\n%s", want, out)
		}
	}
}

func TestDoctorReportsHealthyBoard(t *testing.T) {
	isolate(t)
	mustRun(t, "add", "One")
	mustRun(t, "add", "Two")

	out := mustRun(t, "doctor", "-v")
	for _, want := range []string{"Board file matches the schema", "2 task(s) loaded", `storage        = "json"`} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output does not contain %q:\n%s", want, out)
		}
	}
}

func TestDoctorReportsSchemaErrors(t *testing.T) {
	dir := isolate(t)
	board := filepath.Join(dir, ".taskeasy", "tasks.json")
	if err := os.MkdirAll(filepath.Dir(board), 0o755); err != nil {
		t.Fatal(err)
	}
	doc := `{"schema_version": 1, "key": "taskeasy-tasks", "tasks": [{"id": "x", "title": "", "priority": "urgent"}]}`
	if err := os.WriteFile(board, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "doctor")
	if err == nil {
		t.Fatal("expected doctor to fail")
	}
	if !strings.Contains(out, "does not match the schema") || !strings.Contains(out, "tasks[0]") {
		t.Errorf("doctor output:\n%s", out)
	}

	// the corrupt file is left alone
	data, _ := os.ReadFile(board)
	if string(data) != doc {
		t.Error("doctor modified the board file")
	}
}

func TestDoctorReportsDroppedRecords(t *testing.T) {
	dir := isolate(t)
	board := filepath.Join(dir, ".taskeasy", "tasks.json")
	if err := os.MkdirAll(filepath.Dir(board), 0o755); err != nil {
		t.Fatal(err)
	}
	rec := `{"id":"dup","title":"Twin","description":"","priority":"low","status":"to-do","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}`
	doc := `{"schema_version":1,"key":"taskeasy-tasks","tasks":[` + rec + `,` + rec + `]}`
	if err := os.WriteFile(board, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "doctor")
	if err == nil {
		t.Fatal("expected doctor to report the duplicate")
	}
	if !strings.Contains(out, "1 task(s) loaded") || !strings.Contains(out, "1 stored record(s) are invalid or duplicated") {
		t.Errorf("doctor output:\n%s", out)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "taskeasy.toml"), []byte("log_level = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "--log-format", "json", "config")
	for _, want := range []string{
		"# config file: " + filepath.Join(dir, "taskeasy.toml"),
		`log_level      = "debug"`,
		"# project file",
		`log_format     = "json"`,
		"# flag",
		`sqlite_timeout = "5s"`,
		"# default",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("config output does not contain %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "config", "--example")
	if !strings.Contains(out, "# TaskEasy configuration file") || !strings.Contains(out, `storage = "json"`) {
		t.Errorf("config --example output:\n%s", out)
	}
}
