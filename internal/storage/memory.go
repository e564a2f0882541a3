package storage

import (
	"sync"

	"github.com/nibzard/taskeasy-go/internal/task"
)

// Memory keeps the collection in process memory.
type Memory struct {
	mu      sync.Mutex
	tasks   []task.Task
	saves   int
	saveErr error
}

// NewMemory returns an adapter pre-loaded with a copy of tasks.
func NewMemory(tasks ...task.Task) *Memory {
	return &Memory{tasks: cloneTasks(tasks)}
}

// Load returns a copy of the stored collection.
func (m *Memory) Load() []task.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTasks(m.tasks)
}

// Save stores a copy of tasks, or returns the error set by FailSaves.
func (m *Memory) Save(tasks []task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = cloneTasks(tasks)
	return nil
}

// FailSaves makes subsequent saves return err. A nil err restores
// normal behavior.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns the number of Save calls.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
