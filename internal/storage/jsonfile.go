package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nibzard/taskeasy-go/internal/task"
)

// JSONFile stores the collection as a board document in a single file.
type JSONFile struct {
	path string
	opts *options
}

// NewJSONFile returns a JSON file adapter for path. The file and its
// directory are created on the first save.
func NewJSONFile(path string, opts ...Option) *JSONFile {
	return &JSONFile{path: path, opts: newOptions(opts)}
}

// Path returns the board file path.
func (j *JSONFile) Path() string {
	return j.path
}

// Load reads the board file. A missing file is an empty board; an
// unreadable file or a broken document is logged and treated as empty.
// Records that break the task rules are returned for the store to drop.
func (j *JSONFile) Load() []task.Task {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			j.opts.logger.Debug("board file not found, starting empty", "path", j.path)
		} else {
			j.opts.logger.Warn("read board file", "path", j.path, "err", err)
		}
		return []task.Task{}
	}

	doc, err := decodeDocument(data, j.opts.logger)
	if err != nil {
		j.opts.logger.Warn("ignoring corrupt board file", "path", j.path, "err", err)
		return []task.Task{}
	}
	j.opts.logger.Debug("loaded board", "path", j.path, "tasks", len(doc.Tasks))
	return doc.Tasks
}

// Save overwrites the board file. The document is written to a temporary
// file in the same directory and renamed into place.
func (j *JSONFile) Save(tasks []task.Task) error {
	data, err := encodeDocument(j.opts.key, tasks)
	if err != nil {
		return err
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create board dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("create temp board file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write board file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close board file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("chmod board file: %w", err)
	}
	if err := os.Rename(tmpPath, j.path); err != nil {
		return fmt.Errorf("replace board file: %w", err)
	}

	j.opts.logger.Debug("saved board", "path", j.path, "tasks", len(tasks))
	return nil
}
