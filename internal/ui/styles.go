package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskeasy-go/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#111827"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	flashStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	selectedStyle = lipgloss.NewStyle().Bold(true)

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#D1D5DB")).
			Padding(0, 1).
			Width(22)

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Padding(0, 1)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#93C5FD")).
			Padding(0, 1)
)

// badge colors follow the web cards: red/yellow/green priorities,
// gray/blue/green statuses.
var (
	priorityColors = map[task.Priority]lipgloss.Color{
		task.PriorityHigh:   lipgloss.Color("#991B1B"),
		task.PriorityMedium: lipgloss.Color("#854D0E"),
		task.PriorityLow:    lipgloss.Color("#166534"),
	}
	priorityBackgrounds = map[task.Priority]lipgloss.Color{
		task.PriorityHigh:   lipgloss.Color("#FEE2E2"),
		task.PriorityMedium: lipgloss.Color("#FEF9C3"),
		task.PriorityLow:    lipgloss.Color("#DCFCE7"),
	}
	statusColors = map[task.Status]lipgloss.Color{
		task.StatusToDo:       lipgloss.Color("#1F2937"),
		task.StatusInProgress: lipgloss.Color("#1E40AF"),
		task.StatusDone:       lipgloss.Color("#166534"),
	}
	statusBackgrounds = map[task.Status]lipgloss.Color{
		task.StatusToDo:       lipgloss.Color("#F3F4F6"),
		task.StatusInProgress: lipgloss.Color("#DBEAFE"),
		task.StatusDone:       lipgloss.Color("#DCFCE7"),
	}
	statTileColors = []lipgloss.Color{
		lipgloss.Color("#2563EB"),
		lipgloss.Color("#4B5563"),
		lipgloss.Color("#CA8A04"),
		lipgloss.Color("#16A34A"),
	}
)

func badge(fg, bg lipgloss.Color, text string) string {
	return lipgloss.NewStyle().Foreground(fg).Background(bg).Padding(0, 1).Render(text)
}

func priorityBadge(p task.Priority) string {
	return badge(priorityColors[p], priorityBackgrounds[p], p.Label()+" Priority")
}

func statusBadge(s task.Status) string {
	return badge(statusColors[s], statusBackgrounds[s], s.Label())
}
