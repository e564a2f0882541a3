// Package tasktest generates synthetic tasks and stores for tests.
package tasktest

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nibzard/taskeasy-go/internal/board"
	"github.com/nibzard/taskeasy-go/internal/storage"
	"github.com/nibzard/taskeasy-go/internal/task"
)

// Option overrides a field of a generated task.
type Option func(*task.Task)

// WithID sets the task ID.
func WithID(id string) Option {
	return func(t *task.Task) { t.ID = id }
}

// WithTitle sets the title.
func WithTitle(title string) Option {
	return func(t *task.Task) { t.Title = title }
}

// WithDescription sets the description.
func WithDescription(description string) Option {
	return func(t *task.Task) { t.Description = description }
}

// WithPriority sets the priority.
func WithPriority(p task.Priority) Option {
	return func(t *task.Task) { t.Priority = p }
}

// WithStatus sets the status.
func WithStatus(s task.Status) Option {
	return func(t *task.Task) { t.Status = s }
}

// WithCreatedAt sets both timestamps to at.
func WithCreatedAt(at time.Time) Option {
	return func(t *task.Task) {
		t.CreatedAt = at.UTC()
		t.UpdatedAt = at.UTC()
	}
}

// NewTask returns a valid task with defaults that opts can override.
func NewTask(opts ...Option) task.Task {
	now := time.Now().UTC()
	t := task.Task{
		ID:          uuid.NewString(),
		Title:       "Test Task",
		Description: "Test Description",
		Priority:    task.PriorityMedium,
		Status:      task.StatusToDo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// NewTasks returns n tasks titled "Task 1".."Task n". Priorities cycle
// low, medium, high and statuses cycle to-do, in-progress, done.
func NewTasks(n int) []task.Task {
	tasks := make([]task.Task, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, NewTask(
			WithTitle(fmt.Sprintf("Task %d", i+1)),
			WithPriority(task.Priorities[i%3]),
			WithStatus(task.Statuses[i%3]),
		))
	}
	return tasks
}

// Clock is a deterministic time source that advances by Step on every
// call.
type Clock struct {
	mu   sync.Mutex
	next time.Time
	Step time.Duration
}

// NewClock returns a clock starting at start.
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{next: start.UTC(), Step: step}
}

// Now returns the current reading and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.Step)
	return now
}

// Epoch is the default start of clocks created by NewStore.
var Epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// NewStore returns a store over a memory adapter pre-loaded with seed.
// Unless opts override it, the store uses a Clock starting at Epoch that
// advances one second per reading.
func NewStore(t testing.TB, seed []task.Task, opts ...board.Option) (*board.Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory(seed...)
	clock := NewClock(Epoch, time.Second)
	all := append([]board.Option{board.WithClock(clock.Now)}, opts...)
	return board.New(mem, all...), mem
}
