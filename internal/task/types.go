package task

import (
	"fmt"
	"strings"
	"time"
)

// Priority represents a task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Rank returns the numeric ordering value of the priority.
// Unknown priorities rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Label returns the display label, e.g. "High".
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// Status represents a task status.
type Status string

const (
	StatusToDo       Status = "to-do"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists the valid statuses in workflow order.
var Statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Label returns the display label, e.g. "In Progress".
func (s Status) Label() string {
	switch s {
	case StatusToDo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Next returns the status that follows s in workflow order, wrapping
// from done back to to-do.
func (s Status) Next() Status {
	switch s {
	case StatusToDo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusToDo
	}
}

// ParsePriority parses user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q, must be one of: low, medium, high", s)
	}
	return p, nil
}

// ParseStatus parses user input into a Status. Common spellings such as
// "todo", "doing" and "completed" are accepted.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to-do", "todo", "to_do":
		return StatusToDo, nil
	case "in-progress", "in_progress", "inprogress", "doing":
		return StatusInProgress, nil
	case "done", "complete", "completed":
		return StatusDone, nil
	}
	return "", fmt.Errorf("invalid status %q, must be one of: to-do, in-progress, done", s)
}

// Task represents a single task on the board.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Fields returns the editable fields of t as a fully populated candidate.
func (t Task) Fields() Fields {
	return Fields{
		Title:       Ptr(t.Title),
		Description: Ptr(t.Description),
		Priority:    Ptr(t.Priority),
		Status:      Ptr(t.Status),
	}
}

// Fields is a partial task record. A nil field is absent: on create it
// takes its default, on update it leaves the stored value unchanged.
type Fields struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Apply merges the present fields onto t and returns the result.
// Title and description are trimmed.
func (f Fields) Apply(t Task) Task {
	if f.Title != nil {
		t.Title = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		t.Description = strings.TrimSpace(*f.Description)
	}
	if f.Priority != nil {
		t.Priority = *f.Priority
	}
	if f.Status != nil {
		t.Status = *f.Status
	}
	return t
}

// Empty reports whether no field is present.
func (f Fields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.Priority == nil && f.Status == nil
}
