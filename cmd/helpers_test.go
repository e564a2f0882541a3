package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()

	done := make(chan []byte)
	go func() {
		output, _ := io.ReadAll(r)
		done <- output
	}()

	runErr := fn()
	_ = w.Close()
	output := <-done
	_ = r.Close()

	return string(output), runErr
}

// isolate gives the test an empty project directory and home so no real
// config or board is read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TASKEASY_BOARD", "TASKEASY_STORAGE", "TASKEASY_SQLITE_FILE", "TASKEASY_SQLITE_KEY",
		"TASKEASY_SQLITE_TIMEOUT", "TASKEASY_LOG_LEVEL", "TASKEASY_LOG_FORMAT",
		"TASKEASY_LOG_TIMESTAMPS", "TASKEASY_LOG_CALLER",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

// runCLI runs the CLI with args and returns what it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureStdout(t, func() error {
		return Run(context.Background(), args)
	})
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("taskeasy %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// withStdin replaces the confirmation input for the rest of the test.
func withStdin(t *testing.T, input string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() {
		stdin = old
	})
}

// createdID extracts the ID from the output of the add command.
func createdID(t *testing.T, out string) string {
	t.Helper()
	line := strings.TrimSpace(out)
	id, ok := strings.CutPrefix(line, "Created task ")
	if !ok || id == "" {
		t.Fatalf("unexpected add output %q", out)
	}
	return id
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}
