package tui

import "github.com/charmbracelet/lipgloss"

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	onlineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	diffStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	sideStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Width(36)
)
