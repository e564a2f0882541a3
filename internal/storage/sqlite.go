package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nibzard/taskeasy-go/internal/task"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL
);`

// SQLiteSlot stores the collection as a JSON array in one row of a
// key-value table.
type SQLiteSlot struct {
	db   *sql.DB
	opts *options
}

// OpenSQLite opens (and creates if needed) the database at path.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string, opts ...Option) (*SQLiteSlot, error) {
	o := newOptions(opts)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLiteSlot{db: db, opts: o}, nil
}

// Key returns the slot name.
func (s *SQLiteSlot) Key() string {
	return s.opts.key
}

// Load reads the slot. A missing row is an empty board; a query failure
// or undecodable value is logged and treated as empty.
func (s *SQLiteSlot) Load() []task.Task {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.timeout)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, s.opts.key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.opts.logger.Debug("slot not found, starting empty", "key", s.opts.key)
		} else {
			s.opts.logger.Warn("read slot", "key", s.opts.key, "err", err)
		}
		return []task.Task{}
	}

	doc, err := decodeDocument([]byte(value), s.opts.logger)
	if err != nil {
		s.opts.logger.Warn("ignoring corrupt slot", "key", s.opts.key, "err", err)
		return []task.Task{}
	}
	return doc.Tasks
}

// Save upserts the slot with tasks encoded as a JSON array.
func (s *SQLiteSlot) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	value, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.timeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.opts.key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write slot %s: %w", s.opts.key, err)
	}

	s.opts.logger.Debug("saved slot", "key", s.opts.key, "tasks", len(tasks))
	return nil
}

// Close closes the database.
func (s *SQLiteSlot) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
