// Package view derives display order, status tabs and summary statistics
// from a task collection. Every function is pure and recomputes from the
// snapshot it is given.
package view

import (
	"fmt"
	"math"
	"sort"

	"github.com/nibzard/taskeasy-go/internal/task"
)

// Less reports whether a is displayed before b: higher priority rank
// first, then most recently created first.
func Less(a, b task.Task) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra > rb
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// Sort returns a sorted copy of tasks. Ties keep their input order.
func Sort(tasks []task.Task) []task.Task {
	sorted := make([]task.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Less(sorted[i], sorted[j])
	})
	return sorted
}

// ByStatus returns the sorted tasks whose status is status.
func ByStatus(tasks []task.Task, status task.Status) []task.Task {
	return filterSorted(Sort(tasks), status)
}

// Stats summarizes a collection.
type Stats struct {
	Total          int `json:"total"`
	ToDo           int `json:"todo"`
	InProgress     int `json:"inProgress"`
	Done           int `json:"done"`
	HighPriority   int `json:"highPriority"`
	CompletionRate int `json:"completionRate"`
}

// Compute returns the statistics for tasks. CompletionRate is the
// rounded percentage of done tasks, or 0 for an empty collection.
func Compute(tasks []task.Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case task.StatusToDo:
			s.ToDo++
		case task.StatusInProgress:
			s.InProgress++
		case task.StatusDone:
			s.Done++
		}
		if t.Priority == task.PriorityHigh {
			s.HighPriority++
		}
	}
	s.CompletionRate = CompletionRate(s.Done, s.Total)
	return s
}

// CompletionRate returns round(done/total*100), or 0 when total is 0.
func CompletionRate(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// Tab is one entry of the status tab strip.
type Tab struct {
	// Status is empty for the "All" tab.
	Status task.Status
	Title  string
	Tasks  []task.Task
}

// Label returns the tab title with its task count, e.g. "Done (3)".
func (t Tab) Label() string {
	return fmt.Sprintf("%s (%d)", t.Title, len(t.Tasks))
}

// Tabs returns the All tab followed by one tab per status, each holding
// its sorted tasks.
func Tabs(tasks []task.Task) []Tab {
	sorted := Sort(tasks)
	tabs := []Tab{{Title: "All", Tasks: sorted}}
	for _, status := range task.Statuses {
		tabs = append(tabs, Tab{
			Status: status,
			Title:  status.Label(),
			Tasks:  filterSorted(sorted, status),
		})
	}
	return tabs
}

func filterSorted(sorted []task.Task, status task.Status) []task.Task {
	filtered := make([]task.Task, 0)
	for _, t := range sorted {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
