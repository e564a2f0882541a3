// Package board owns the authoritative task collection.
//
// The Store is the only writer of tasks. Each mutation runs to completion,
// saves the whole collection through the storage adapter and then notifies
// observers, so callers always see a consistent snapshot.
package board

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/taskeasy-go/internal/logging"
	"github.com/nibzard/taskeasy-go/internal/storage"
	"github.com/nibzard/taskeasy-go/internal/task"
)

var (
	// ErrNotFound is returned when no task has the requested ID.
	ErrNotFound = errors.New("task not found")
	// ErrAmbiguousID is returned when an ID prefix matches several tasks.
	ErrAmbiguousID = errors.New("ambiguous task id")
	// ErrPersist wraps save failures. The in-memory change is kept.
	ErrPersist = errors.New("save tasks")
)

// EventKind identifies the mutation an Event reports.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event is delivered to observers after each mutation.
type Event struct {
	Kind EventKind
	Task task.Task
	// SaveErr is set when the collection could not be persisted.
	SaveErr error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source. Times are converted to UTC.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the ID source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store owns the task collection in insertion order.
type Store struct {
	mu        sync.Mutex
	adapter   storage.Adapter
	tasks     []task.Task
	now       func() time.Time
	newID     func() string
	logger    *log.Logger
	observers []observer
	nextObs   int
}

type observer struct {
	id int
	fn func(Event)
}

// New creates a Store and loads the saved collection from adapter.
// Stored records that break the task rules or repeat an ID are dropped.
func New(adapter storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = s.sanitize(adapter.Load())
	return s
}

func (s *Store) sanitize(loaded []task.Task) []task.Task {
	tasks := make([]task.Task, 0, len(loaded))
	seen := make(map[string]bool, len(loaded))
	for _, t := range loaded {
		if v := task.ValidateTask(t); len(v) > 0 {
			s.logger.Warn("dropping invalid stored task", "id", t.ID, "violations", strings.Join(v, "; "))
			continue
		}
		if seen[t.ID] {
			s.logger.Warn("dropping duplicate stored task", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// Create adds a task built from fields. Absent fields take their defaults:
// empty description, medium priority, to-do status. The candidate is
// validated before anything changes.
func (s *Store) Create(fields task.Fields) (task.Task, error) {
	candidate := task.Fields{
		Title:       fields.Title,
		Description: task.Ptr(""),
		Priority:    task.Ptr(task.PriorityMedium),
		Status:      task.Ptr(task.StatusToDo),
	}
	if fields.Description != nil {
		candidate.Description = fields.Description
	}
	if fields.Priority != nil {
		candidate.Priority = fields.Priority
	}
	if fields.Status != nil {
		candidate.Status = fields.Status
	}
	if err := task.Check(candidate); err != nil {
		return task.Task{}, err
	}

	s.mu.Lock()
	id, err := s.uniqueID()
	if err != nil {
		s.mu.Unlock()
		return task.Task{}, err
	}
	now := s.timestamp()
	t := candidate.Apply(task.Task{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.tasks = append(s.tasks, t)
	ev := s.save(Event{Kind: EventCreated, Task: t})
	observers := s.observerList()
	s.mu.Unlock()

	s.logger.Info("created task", "id", t.ID, "title", t.Title)
	notify(observers, ev)
	return t, ev.SaveErr
}

const maxIDAttempts = 16

func (s *Store) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate task id: no unique id after %d attempts", maxIDAttempts)
}

// Update merges patch onto the task with the given ID and refreshes its
// UpdatedAt. ID and CreatedAt never change. The merged record is
// validated before anything changes.
func (s *Store) Update(id string, patch task.Fields) (task.Task, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return task.Task{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	if err := task.Check(mergedFields(s.tasks[i], patch)); err != nil {
		s.mu.Unlock()
		return task.Task{}, err
	}

	merged := patch.Apply(s.tasks[i])
	merged.ID = s.tasks[i].ID
	merged.CreatedAt = s.tasks[i].CreatedAt
	merged.UpdatedAt = s.timestamp()
	if merged.UpdatedAt.Before(merged.CreatedAt) {
		merged.UpdatedAt = merged.CreatedAt
	}
	s.tasks[i] = merged
	ev := s.save(Event{Kind: EventUpdated, Task: merged})
	observers := s.observerList()
	s.mu.Unlock()

	s.logger.Info("updated task", "id", id, "status", merged.Status)
	notify(observers, ev)
	return merged, ev.SaveErr
}

// mergedFields returns the candidate checked on update: the stored
// fields overlaid with the raw patch values.
func mergedFields(current task.Task, patch task.Fields) task.Fields {
	f := current.Fields()
	if patch.Title != nil {
		f.Title = patch.Title
	}
	if patch.Description != nil {
		f.Description = patch.Description
	}
	if patch.Priority != nil {
		f.Priority = patch.Priority
	}
	if patch.Status != nil {
		f.Status = patch.Status
	}
	return f
}

// Delete removes the task with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	ev := s.save(Event{Kind: EventDeleted, Task: removed})
	observers := s.observerList()
	s.mu.Unlock()

	s.logger.Info("deleted task", "id", id)
	notify(observers, ev)
	return ev.SaveErr
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return task.Task{}, false
}

// Resolve returns the full ID of the only task whose ID starts with
// prefix. An exact match always wins.
func (s *Store) Resolve(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(prefix) >= 0 {
		return prefix, nil
	}
	var matches []string
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("resolve %q matches %d tasks: %w", prefix, len(matches), ErrAmbiguousID)
	}
}

// Subscribe registers fn to receive events, in registration order. The
// returned function removes the registration.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextObs++
	id := s.nextObs
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) observerList() []func(Event) {
	fns := make([]func(Event), len(s.observers))
	for i, o := range s.observers {
		fns[i] = o.fn
	}
	return fns
}

// save writes the full collection. Callers hold mu.
func (s *Store) save(ev Event) Event {
	if err := s.adapter.Save(s.snapshot()); err != nil {
		s.logger.Error("save tasks", "err", err)
		ev.SaveErr = fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return ev
}

func notify(observers []func(Event), ev Event) {
	for _, fn := range observers {
		fn(ev)
	}
}
