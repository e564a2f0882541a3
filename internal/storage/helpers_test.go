package storage

import (
	"testing"
	"time"

	"github.com/nibzard/taskeasy-go/internal/task"
)

func sampleTasks(t *testing.T) []task.Task {
	t.Helper()
	created := time.Date(2024, 3, 1, 8, 0, 0, 123456789, time.UTC)
	return []task.Task{
		{
			ID:          "11111111-1111-4111-8111-111111111111",
			Title:       "Write release notes",
			Description: "Cover the storage changes",
			Priority:    task.PriorityHigh,
			Status:      task.StatusInProgress,
			CreatedAt:   created,
			UpdatedAt:   created.Add(90 * time.Minute),
		},
		{
			ID:        "22222222-2222-4222-8222-222222222222",
			Title:     "Tidy backlog",
			Priority:  task.PriorityLow,
			Status:    task.StatusToDo,
			CreatedAt: created.Add(time.Hour),
			UpdatedAt: created.Add(time.Hour),
		},
	}
}

func assertSameTasks(t *testing.T, got, want []task.Task) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Title != w.Title || g.Description != w.Description ||
			g.Priority != w.Priority || g.Status != w.Status {
			t.Errorf("task %d: got %+v, want %+v", i, g, w)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) || !g.UpdatedAt.Equal(w.UpdatedAt) {
			t.Errorf("task %d timestamps: got %v/%v, want %v/%v", i, g.CreatedAt, g.UpdatedAt, w.CreatedAt, w.UpdatedAt)
		}
	}
}
