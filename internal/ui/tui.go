// Package ui provides the interactive terminal board.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskeasy-go/internal/board"
	"github.com/nibzard/taskeasy-go/internal/task"
	"github.com/nibzard/taskeasy-go/internal/view"
)

// EmptyListText is shown when the selected tab has no tasks.
const EmptyListText = "No tasks found. Create your first task to get started!"

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	source string
}

// WithSource sets the storage location shown in the footer.
func WithSource(source string) TUIOption {
	return func(c *tuiConfig) {
		c.source = source
	}
}

// RunTUI runs the interactive board over store until the user quits or
// ctx is cancelled.
func RunTUI(ctx context.Context, store *board.Store, opts ...TUIOption) error {
	c := &tuiConfig{}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	events := make(chan board.Event, 16)
	unsubscribe := store.Subscribe(func(ev board.Event) {
		select {
		case events <- ev:
		default:
			// the model refreshes on every mutation result anyway
		}
	})
	defer unsubscribe()

	model := newTUIModel(store, events)
	model.source = c.source
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirmDelete
)

type tuiModel struct {
	store  *board.Store
	events <-chan board.Event
	source string

	tabs   []view.Tab
	stats  view.Stats
	tab    int
	cursor int
	mode   mode
	form   *taskForm
	// editing is the task the form is editing, nil when creating or
	// when no form is open.
	editing *task.Task
	// deleting is the task awaiting delete confirmation.
	deleting *task.Task
	flash    string
	err      error
	showHelp bool
	width    int
}

// mutationMsg reports the outcome of a store operation run as a command.
type mutationMsg struct {
	kind board.EventKind
	task task.Task
	err  error
}

type eventMsg struct {
	event board.Event
}

func newTUIModel(store *board.Store, events <-chan board.Event) *tuiModel {
	m := &tuiModel{
		store:  store,
		events: events,
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return waitForEvent(m.events)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m, m.updateForm(msg)
		case modeConfirmDelete:
			return m, m.updateConfirm(msg)
		default:
			return m, m.updateBrowse(msg)
		}
	case mutationMsg:
		m.applyResult(msg)
		return m, nil
	case eventMsg:
		m.refresh()
		if msg.event.SaveErr != nil {
			m.err = msg.event.SaveErr
		}
		return m, waitForEvent(m.events)
	}
	return m, nil
}

func (m *tuiModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		m.showHelp = false
		return nil
	}
	switch msg.String() {
	case "q":
		return tea.Quit
	case "?", "h":
		m.showHelp = true
	case "r", "f5":
		m.refresh()
	case "0", "1", "2", "3":
		m.selectTab(int(msg.String()[0] - '0'))
	case "tab", "right", "l":
		m.selectTab((m.tab + 1) % len(m.tabs))
	case "shift+tab", "left":
		m.selectTab((m.tab + len(m.tabs) - 1) % len(m.tabs))
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "space":
		if t, ok := m.selected(); ok {
			return updateCmd(m.store, t.ID, task.Fields{Status: task.Ptr(t.Status.Next())})
		}
	case "n":
		m.openForm(nil)
	case "e", "enter":
		if t, ok := m.selected(); ok {
			m.openForm(&t)
		}
	case "d", "delete":
		if t, ok := m.selected(); ok {
			m.deleting = &t
			m.mode = modeConfirmDelete
		}
	}
	return nil
}

func (m *tuiModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch m.form.update(msg) {
	case formSubmit:
		if m.editing != nil {
			return updateCmd(m.store, m.editing.ID, m.form.fields())
		}
		return createCmd(m.store, m.form.fields())
	case formCancel:
		m.closeForm()
	case formDelete:
		t := *m.editing
		m.deleting = &t
		m.mode = modeConfirmDelete
	}
	return nil
}

func (m *tuiModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		t := *m.deleting
		m.deleting = nil
		m.mode = m.returnMode()
		return deleteCmd(m.store, t)
	case "n", "N", "esc":
		m.deleting = nil
		m.mode = m.returnMode()
	}
	return nil
}

func (m *tuiModel) returnMode() mode {
	if m.form != nil {
		return modeForm
	}
	return modeBrowse
}

func (m *tuiModel) applyResult(msg mutationMsg) {
	m.refresh()

	var ve *task.ValidationError
	switch {
	case errors.As(msg.err, &ve):
		if m.form != nil {
			m.form.violations = ve.Violations
			return
		}
		m.err = msg.err
		return
	case errors.Is(msg.err, board.ErrNotFound):
		m.err = msg.err
		m.forget(msg.task.ID)
		return
	case msg.err != nil && !errors.Is(msg.err, board.ErrPersist):
		m.err = msg.err
		return
	}

	// Persist failures keep the change in memory, so the result still applies.
	m.err = msg.err
	switch msg.kind {
	case board.EventCreated:
		m.closeForm()
		m.flash = fmt.Sprintf("Created %q", msg.task.Title)
	case board.EventUpdated:
		if m.editing != nil && m.editing.ID == msg.task.ID {
			m.closeForm()
		}
		m.flash = fmt.Sprintf("Updated %q (%s)", msg.task.Title, msg.task.Status.Label())
	case board.EventDeleted:
		m.forget(msg.task.ID)
		m.flash = fmt.Sprintf("Deleted %q", msg.task.Title)
	}
}

// forget clears any UI state that refers to the task with id.
func (m *tuiModel) forget(id string) {
	if m.editing != nil && m.editing.ID == id {
		m.closeForm()
	}
	if m.deleting != nil && m.deleting.ID == id {
		m.deleting = nil
		m.mode = m.returnMode()
	}
}

func (m *tuiModel) openForm(t *task.Task) {
	m.editing = t
	m.form = newTaskForm(t)
	m.mode = modeForm
	m.flash = ""
}

func (m *tuiModel) closeForm() {
	m.editing = nil
	m.form = nil
	if m.mode == modeForm {
		m.mode = modeBrowse
	}
}

func (m *tuiModel) refresh() {
	tasks := m.store.List()
	m.tabs = view.Tabs(tasks)
	m.stats = view.Compute(tasks)
	m.clampCursor()
}

func (m *tuiModel) selectTab(i int) {
	if i < 0 || i >= len(m.tabs) {
		return
	}
	m.tab = i
	m.cursor = 0
}

func (m *tuiModel) visible() []task.Task {
	return m.tabs[m.tab].Tasks
}

func (m *tuiModel) selected() (task.Task, bool) {
	tasks := m.visible()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *tuiModel) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func createCmd(store *board.Store, fields task.Fields) tea.Cmd {
	return func() tea.Msg {
		t, err := store.Create(fields)
		return mutationMsg{kind: board.EventCreated, task: t, err: err}
	}
}

func updateCmd(store *board.Store, id string, fields task.Fields) tea.Cmd {
	return func() tea.Msg {
		t, err := store.Update(id, fields)
		if t.ID == "" {
			t.ID = id
		}
		return mutationMsg{kind: board.EventUpdated, task: t, err: err}
	}
}

func deleteCmd(store *board.Store, t task.Task) tea.Cmd {
	return func() tea.Msg {
		err := store.Delete(t.ID)
		return mutationMsg{kind: board.EventDeleted, task: t, err: err}
	}
}

func waitForEvent(ch <-chan board.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{event: ev}
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)
	writeStats(&b, m.stats)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.source)
		return b.String()
	}

	if m.form != nil {
		m.form.writeTo(&b)
	}
	writeTabs(&b, m.tabs, m.tab)
	writeTaskList(&b, m.visible(), m.cursor, m.listWidth())

	if m.mode == modeConfirmDelete && m.deleting != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Are you sure you want to delete %q? (y/n)", m.deleting.Title)))
		b.WriteString("\n\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	} else if m.flash != "" {
		b.WriteString(flashStyle.Render(m.flash) + "\n\n")
	}
	writeFooter(&b, m.source)
	return b.String()
}

func (m *tuiModel) listWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("TaskEasy") + "\n")
	b.WriteString(subtleStyle.Render("Lightweight task management for agile teams") + "\n\n")
}

func writeStats(b *strings.Builder, stats view.Stats) {
	tiles := []struct {
		title string
		value int
		note  string
	}{
		{title: "Total Tasks", value: stats.Total},
		{title: "To Do", value: stats.ToDo},
		{title: "In Progress", value: stats.InProgress},
		{title: "Completed", value: stats.Done},
	}
	if stats.HighPriority > 0 {
		tiles[0].note = errorStyle.Render(fmt.Sprintf("%d high priority", stats.HighPriority))
	}
	if stats.Total > 0 {
		tiles[3].note = subtleStyle.Render(fmt.Sprintf("%d%% completion rate", stats.CompletionRate))
	}

	rendered := make([]string, len(tiles))
	for i, tile := range tiles {
		body := subtleStyle.Render(tile.title) + "\n" +
			lipgloss.NewStyle().Bold(true).Foreground(statTileColors[i]).Render(fmt.Sprint(tile.value))
		if tile.note != "" {
			body += "\n" + tile.note
		}
		rendered[i] = tileStyle.Render(body)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n\n")
}

func writeTabs(b *strings.Builder, tabs []view.Tab, active int) {
	labels := make([]string, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i, tab.Label())
		if i == active {
			labels[i] = activeTabStyle.Render(label)
		} else {
			labels[i] = inactiveTabStyle.Render(label)
		}
	}
	b.WriteString(strings.Join(labels, " ") + "\n\n")
}

func writeTaskList(b *strings.Builder, tasks []task.Task, cursor, width int) {
	if len(tasks) == 0 {
		b.WriteString("  " + subtleStyle.Render(EmptyListText) + "\n\n")
		return
	}
	for i, t := range tasks {
		b.WriteString(formatTask(t, i == cursor, width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func formatTask(t task.Task, selected bool, width int) string {
	marker := "  "
	title := t.Title
	if selected {
		marker = "> "
		title = selectedStyle.Render(title)
	}
	line := fmt.Sprintf("%s%s %s %s", marker, title, priorityBadge(t.Priority), statusBadge(t.Status))
	created := subtleStyle.Render("    Created " + t.CreatedAt.Local().Format("Jan 2, 03:04 PM"))
	if t.Description == "" {
		return line + "\n" + created
	}
	return line + "\n    " + truncate(t.Description, width-6) + "\n" + created
}

// truncate shortens s to at most n runes, keeping only its first line.
func truncate(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "..."
	}
	if n < 4 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c     Quit\n")
	b.WriteString("  0-3, tab      Switch tab (All, To Do, In Progress, Done)\n")
	b.WriteString("  j/k, up/down  Move the cursor\n")
	b.WriteString("  space         Advance the selected task's status\n")
	b.WriteString("  n             New task\n")
	b.WriteString("  e, enter      Edit the selected task\n")
	b.WriteString("  d             Delete the selected task\n")
	b.WriteString("  r             Reload\n")
	b.WriteString("  h, ?          Toggle this help screen\n\n")
	b.WriteString("In the form: tab/shift+tab move between fields, left/right change\n")
	b.WriteString("priority and status, enter saves, esc cancels.\n\n")
}

func writeFooter(b *strings.Builder, source string) {
	footer := "Press h for help | n new task | q to quit"
	if source != "" {
		footer += " | " + source
	}
	b.WriteString(subtleStyle.Render(footer) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
