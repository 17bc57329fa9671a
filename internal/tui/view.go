package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/aura/internal/stats"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = docStyle.Render(m.habits.View())
	case StateWeek:
		now := m.opts.Now()
		content = docStyle.Render(stats.RenderWeek(m.svc.List(), stats.Week(now, m.opts.FirstWeekday), now))
	case StateStats:
		content = docStyle.Render(stats.Render(m.svc.List(), m.opts.Now()))
	case StateAddHabit, StateEditHabit, StateReminder:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.warning != "" {
		parts = append(parts, warningStyle.Render("⚠ "+m.warning))
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirmDelete() string {
	title := "this habit"
	if h, err := m.svc.Get(m.target); err == nil {
		title = "\"" + h.Title + "\""
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete "+title+" and its whole history?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
