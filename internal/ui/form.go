package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskeasy-go/internal/task"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldStatus
	fieldCount
)

func (f formField) label() string {
	switch f {
	case fieldTitle:
		return "Title"
	case fieldDescription:
		return "Description"
	case fieldPriority:
		return "Priority"
	default:
		return "Status"
	}
}

type formAction int

const (
	formContinue formAction = iota
	formSubmit
	formCancel
	formDelete
)

// taskForm holds the create/edit form inputs. Text is kept as typed and
// trimmed when the task is saved.
type taskForm struct {
	title       []rune
	description []rune
	priority    task.Priority
	status      task.Status
	focus       formField
	violations  []string
	editing     bool
}

func newTaskForm(t *task.Task) *taskForm {
	if t == nil {
		return &taskForm{
			priority: task.PriorityMedium,
			status:   task.StatusToDo,
		}
	}
	return &taskForm{
		title:       []rune(t.Title),
		description: []rune(t.Description),
		priority:    t.Priority,
		status:      t.Status,
		editing:     true,
	}
}

func (f *taskForm) fields() task.Fields {
	return task.Fields{
		Title:       task.Ptr(string(f.title)),
		Description: task.Ptr(string(f.description)),
		Priority:    task.Ptr(f.priority),
		Status:      task.Ptr(f.status),
	}
}

// validate records the rule violations and reports whether the form can
// be submitted.
func (f *taskForm) validate() bool {
	f.violations = task.Validate(f.fields())
	return len(f.violations) == 0
}

func (f *taskForm) update(msg tea.KeyMsg) formAction {
	switch msg.Type {
	case tea.KeyEsc:
		return formCancel
	case tea.KeyEnter:
		if f.validate() {
			return formSubmit
		}
		return formContinue
	case tea.KeyTab, tea.KeyDown:
		f.focus = (f.focus + 1) % fieldCount
		return formContinue
	case tea.KeyShiftTab, tea.KeyUp:
		f.focus = (f.focus + fieldCount - 1) % fieldCount
		return formContinue
	case tea.KeyCtrlD:
		if f.editing {
			return formDelete
		}
		return formContinue
	}

	switch f.focus {
	case fieldTitle:
		f.title = editText(f.title, msg)
	case fieldDescription:
		f.description = editText(f.description, msg)
	case fieldPriority:
		f.priority = cycle(task.Priorities, f.priority, direction(msg))
	case fieldStatus:
		f.status = cycle(task.Statuses, f.status, direction(msg))
	}
	return formContinue
}

func editText(text []rune, msg tea.KeyMsg) []rune {
	switch msg.Type {
	case tea.KeyRunes:
		return append(text, msg.Runes...)
	case tea.KeySpace:
		return append(text, ' ')
	case tea.KeyBackspace:
		if len(text) > 0 {
			return text[:len(text)-1]
		}
	case tea.KeyCtrlU:
		return text[:0]
	}
	return text
}

func direction(msg tea.KeyMsg) int {
	switch msg.String() {
	case "right", "l", " ", "space":
		return 1
	case "left", "h":
		return -1
	}
	return 0
}

func cycle[T comparable](values []T, current T, step int) T {
	if step == 0 {
		return current
	}
	for i, v := range values {
		if v == current {
			return values[(i+step+len(values))%len(values)]
		}
	}
	return values[0]
}

func (f *taskForm) writeTo(b *strings.Builder) {
	var inner strings.Builder
	if f.editing {
		inner.WriteString(titleStyle.Render("Edit Task") + "\n")
		inner.WriteString(subtleStyle.Render("Update the task details below") + "\n\n")
	} else {
		inner.WriteString(titleStyle.Render("Create New Task") + "\n")
		inner.WriteString(subtleStyle.Render("Add a new task to your workflow") + "\n\n")
	}

	for field := fieldTitle; field < fieldCount; field++ {
		marker := "  "
		if field == f.focus {
			marker = "> "
		}
		inner.WriteString(marker + field.label() + ": " + f.value(field, field == f.focus) + "\n")
	}

	if len(f.violations) > 0 {
		inner.WriteString("\n")
		for _, v := range f.violations {
			inner.WriteString(errorStyle.Render("  ! "+v) + "\n")
		}
	}

	submit := "Create Task"
	if f.editing {
		submit = "Update Task"
	}
	hint := fmt.Sprintf("\nenter %s | esc Cancel | tab next field", submit)
	if f.editing {
		hint += " | ctrl+d Delete"
	}
	inner.WriteString(subtleStyle.Render(hint))

	b.WriteString(formStyle.Render(inner.String()))
	b.WriteString("\n\n")
}

func (f *taskForm) value(field formField, focused bool) string {
	switch field {
	case fieldTitle:
		return textValue(f.title, task.MaxTitleLength, focused)
	case fieldDescription:
		return textValue(f.description, task.MaxDescriptionLength, focused)
	case fieldPriority:
		return "< " + f.priority.Label() + " >"
	default:
		return "< " + f.status.Label() + " >"
	}
}

func textValue(text []rune, limit int, focused bool) string {
	s := string(text)
	if focused {
		s += "_"
	}
	return s + " " + subtleStyle.Render(fmt.Sprintf("(%d/%d)", len(text), limit))
}
