package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/strrl/blogpessoal/internal/notify"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("238")).
				Padding(0, 2)

	dangerButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("160")).
				Padding(0, 2)
)

var noticeColors = map[notify.Level]lipgloss.Color{
	notify.Info:    lipgloss.Color("39"),
	notify.Success: lipgloss.Color("42"),
	notify.Error:   lipgloss.Color("196"),
}

func noticeStyle(level notify.Level) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(noticeColors[level])
}

// button renders a submit control; disabled while its request is in flight
func button(label string, disabled bool) string {
	if disabled {
		return disabledButtonStyle.Render(label)
	}
	return buttonStyle.Render(label)
}
