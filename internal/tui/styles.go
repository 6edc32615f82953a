package tui

import (
	"github.com/charmbracelet/lipgloss"

	issuedomain "github.com/trackly/tracker/internal/issues/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	filterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	statusColors = map[issuedomain.Status]lipgloss.Color{
		issuedomain.StatusOpen:       lipgloss.Color("252"),
		issuedomain.StatusInProgress: lipgloss.Color("214"),
		issuedomain.StatusDone:       lipgloss.Color("42"),
	}

	priorityColors = map[issuedomain.Priority]lipgloss.Color{
		issuedomain.PriorityLow:    lipgloss.Color("245"),
		issuedomain.PriorityMedium: lipgloss.Color("39"),
		issuedomain.PriorityHigh:   lipgloss.Color("196"),
	}
)

func statusIcon(s issuedomain.Status) string {
	switch s {
	case issuedomain.StatusInProgress:
		return "◐"
	case issuedomain.StatusDone:
		return "●"
	}
	return "○"
}
