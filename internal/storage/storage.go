// Package storage persists the task collection to a local key-value slot.
//
// Every backend stores the whole collection under one key and overwrites it
// on each save. Loading never fails to the caller: a missing, unreadable or
// corrupt slot yields an empty collection and a warning log.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskeasy-go/internal/logging"
	"github.com/nibzard/taskeasy-go/internal/task"
)

// DefaultKey is the slot name the collection is stored under.
const DefaultKey = "taskeasy-tasks"

// DefaultTimeout bounds each SQLite load or save.
const DefaultTimeout = 5 * time.Second

// Adapter loads and saves the full task collection.
type Adapter interface {
	// Load returns the saved collection, or an empty slice if nothing
	// usable is stored.
	Load() []task.Task
	// Save overwrites the stored collection with tasks.
	Save(tasks []task.Task) error
}

// Backend names a storage implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendJSON, BackendSQLite, BackendMemory:
		return b, nil
	}
	return "", fmt.Errorf("unknown storage backend %q, must be one of: json, sqlite, memory", s)
}

// Option configures a backend.
type Option func(*options)

type options struct {
	logger  *log.Logger
	key     string
	timeout time.Duration
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:  logging.Discard(),
		key:     DefaultKey,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to report load and save problems.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithKey sets the slot name. Only the SQLite backend stores more than one
// slot, the JSON file records it for reference.
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithTimeout bounds each SQLite operation.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Open returns the adapter for backend. Adapters holding resources also
// implement io.Closer.
func Open(backend Backend, path string, opts ...Option) (Adapter, error) {
	switch backend {
	case BackendJSON:
		return NewJSONFile(path, opts...), nil
	case BackendSQLite:
		return OpenSQLite(path, opts...)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

func cloneTasks(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	return out
}
