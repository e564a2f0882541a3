package view

import (
	"math/rand"
	"testing"
	"time"

	"github.com/nibzard/taskeasy-go/internal/task"
	"github.com/nibzard/taskeasy-go/internal/tasktest"
)

var base = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) tasktest.Option {
	return tasktest.WithCreatedAt(base.Add(time.Duration(minutes) * time.Minute))
}

func titles(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSort(t *testing.T) {
	tasks := []task.Task{
		tasktest.NewTask(tasktest.WithTitle("low old"), tasktest.WithPriority(task.PriorityLow), at(0)),
		tasktest.NewTask(tasktest.WithTitle("high old"), tasktest.WithPriority(task.PriorityHigh), at(1)),
		tasktest.NewTask(tasktest.WithTitle("medium"), tasktest.WithPriority(task.PriorityMedium), at(2)),
		tasktest.NewTask(tasktest.WithTitle("high new"), tasktest.WithPriority(task.PriorityHigh), at(3)),
		tasktest.NewTask(tasktest.WithTitle("low new"), tasktest.WithPriority(task.PriorityLow), at(4)),
	}

	got := titles(Sort(tasks))
	want := []string{"high new", "high old", "medium", "low new", "low old"}
	if !equalStrings(got, want) {
		t.Errorf("Sort() = %q, want %q", got, want)
	}
	if tasks[0].Title != "low old" {
		t.Error("Sort modified its input")
	}
}

func TestSortStableOnFullTie(t *testing.T) {
	a := tasktest.NewTask(tasktest.WithTitle("a"), at(0))
	b := tasktest.NewTask(tasktest.WithTitle("b"), at(0))
	got := titles(Sort([]task.Task{a, b}))
	if !equalStrings(got, []string{"a", "b"}) {
		t.Errorf("Sort() = %q, want input order on full tie", got)
	}
}

func TestSortOrderingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := rng.Intn(20)
		tasks := make([]task.Task, n)
		for i := range tasks {
			tasks[i] = tasktest.NewTask(
				tasktest.WithPriority(task.Priorities[rng.Intn(3)]),
				at(rng.Intn(5)),
			)
		}

		sorted := Sort(tasks)
		if len(sorted) != n {
			t.Fatalf("Sort returned %d tasks, want %d", len(sorted), n)
		}
		for i := 0; i+1 < len(sorted); i++ {
			a, b := sorted[i], sorted[i+1]
			ra, rb := a.Priority.Rank(), b.Priority.Rank()
			if ra < rb || (ra == rb && a.CreatedAt.Before(b.CreatedAt)) {
				t.Fatalf("round %d: %v (%s) before %v (%s)", round, a.Priority, a.CreatedAt, b.Priority, b.CreatedAt)
			}
		}
	}
}

func TestByStatus(t *testing.T) {
	tasks := []task.Task{
		tasktest.NewTask(tasktest.WithTitle("done low"), tasktest.WithStatus(task.StatusDone), tasktest.WithPriority(task.PriorityLow), at(0)),
		tasktest.NewTask(tasktest.WithTitle("todo"), tasktest.WithStatus(task.StatusToDo), at(1)),
		tasktest.NewTask(tasktest.WithTitle("done high"), tasktest.WithStatus(task.StatusDone), tasktest.WithPriority(task.PriorityHigh), at(2)),
	}

	got := titles(ByStatus(tasks, task.StatusDone))
	if !equalStrings(got, []string{"done high", "done low"}) {
		t.Errorf("ByStatus(done) = %q", got)
	}
	if got := ByStatus(tasks, task.StatusInProgress); got == nil || len(got) != 0 {
		t.Errorf("ByStatus(in-progress) = %v, want empty slice", got)
	}
}

func TestCompute(t *testing.T) {
	tasks := []task.Task{
		tasktest.NewTask(tasktest.WithStatus(task.StatusToDo), tasktest.WithPriority(task.PriorityHigh)),
		tasktest.NewTask(tasktest.WithStatus(task.StatusInProgress), tasktest.WithPriority(task.PriorityHigh)),
		tasktest.NewTask(tasktest.WithStatus(task.StatusDone)),
		tasktest.NewTask(tasktest.WithStatus(task.StatusDone), tasktest.WithPriority(task.PriorityLow)),
	}
	got := Compute(tasks)
	want := Stats{Total: 4, ToDo: 1, InProgress: 1, Done: 2, HighPriority: 2, CompletionRate: 50}
	if got != want {
		t.Errorf("Compute() = %+v, want %+v", got, want)
	}
}

func TestComputeEmpty(t *testing.T) {
	if got := Compute(nil); got != (Stats{}) {
		t.Errorf("Compute(nil) = %+v, want zero", got)
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{3, 3, 100},
	}
	for _, tt := range tests {
		if got := CompletionRate(tt.done, tt.total); got != tt.want {
			t.Errorf("CompletionRate(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestStatsCountsSumToTotal(t *testing.T) {
	for n := 0; n < 10; n++ {
		s := Compute(tasktest.NewTasks(n))
		if s.ToDo+s.InProgress+s.Done != s.Total {
			t.Errorf("n=%d: per-status counts %+v do not sum to total", n, s)
		}
	}
}

func TestTabs(t *testing.T) {
	tabs := Tabs(tasktest.NewTasks(5))
	wantLabels := []string{"All (5)", "To Do (2)", "In Progress (2)", "Done (1)"}
	if len(tabs) != len(wantLabels) {
		t.Fatalf("got %d tabs", len(tabs))
	}
	for i, want := range wantLabels {
		if got := tabs[i].Label(); got != want {
			t.Errorf("tab %d label = %q, want %q", i, got, want)
		}
	}
	if tabs[0].Status != "" || tabs[3].Status != task.StatusDone {
		t.Errorf("tab statuses = %q, %q", tabs[0].Status, tabs[3].Status)
	}
}

// Create three tasks, check order and stats, then complete the high one.
func TestBoardScenario(t *testing.T) {
	s, _ := tasktest.NewStore(t, nil)

	var high task.Task
	for _, p := range []task.Priority{task.PriorityLow, task.PriorityHigh, task.PriorityMedium} {
		created, err := s.Create(task.Fields{Title: task.Ptr(string(p) + " task"), Priority: task.Ptr(p)})
		if err != nil {
			t.Fatalf("Create(%s): %v", p, err)
		}
		if p == task.PriorityHigh {
			high = created
		}
	}

	sorted := Sort(s.List())
	var order []task.Priority
	for _, tk := range sorted {
		order = append(order, tk.Priority)
	}
	wantOrder := []task.Priority{task.PriorityHigh, task.PriorityMedium, task.PriorityLow}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", order, wantOrder)
		}
	}

	stats := Compute(s.List())
	if stats.Total != 3 || stats.HighPriority != 1 || stats.Done != 0 || stats.CompletionRate != 0 {
		t.Errorf("stats = %+v", stats)
	}

	if _, err := s.Update(high.ID, task.Fields{Status: task.Ptr(task.StatusDone)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := Compute(s.List()).CompletionRate; got != 33 {
		t.Errorf("CompletionRate = %d, want 33", got)
	}
}
