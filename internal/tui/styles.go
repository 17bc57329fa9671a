package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7F5AF0")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E45858")).Bold(true)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F2C94C"))
)
