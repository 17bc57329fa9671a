package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/aura/internal/logger"
	"github.com/julianstephens/aura/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Tabs, status and help lines
		m.habits.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case refreshMsg:
		if err := m.svc.Load(); err != nil {
			logger.Error("Failed to reload habits", "error", err)
			m.status = "Reload failed: " + err.Error()
		} else {
			m.reload()
		}
		return m, waitForChange(m.opts.Changed)
	}

	switch m.state {
	case StateAddHabit, StateEditHabit, StateReminder:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if handled, cmd := m.handleHabitMessages(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		}
	}

	if m.state == StateToday {
		var cmd tea.Cmd
		m.habits, cmd = m.habits.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleHabitMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habitlist.AddHabitMsg:
		m.fields = newHabitFormModel()
		m.form = NewHabitForm(m.fields, true)
		m.state = StateAddHabit
		return true, m.form.Init()

	case habitlist.ToggleHabitMsg:
		h, err := m.svc.Toggle(msg.ID, m.opts.Now())
		if err != nil {
			m.status = "Could not save: " + err.Error()
			return true, nil
		}
		if h.IsCompleted(m.opts.Now()) {
			m.status = "✓ " + h.Title + " done"
		} else {
			m.status = h.Title + " not done"
		}
		m.reload()
		return true, nil

	case habitlist.EditHabitMsg:
		h, err := m.svc.Get(msg.ID)
		if err != nil {
			m.status = err.Error()
			return true, nil
		}
		m.target = h.ID
		m.fields = habitFormFrom(h)
		m.form = NewHabitForm(m.fields, false)
		m.state = StateEditHabit
		return true, m.form.Init()

	case habitlist.ReminderMsg:
		h, err := m.svc.Get(msg.ID)
		if err != nil {
			m.status = err.Error()
			return true, nil
		}
		m.target = h.ID
		m.remind = &ReminderFormModel{On: h.IsReminderOn, Time: h.ReminderTime}
		m.form = NewReminderForm(m.remind)
		m.state = StateReminder
		return true, m.form.Init()

	case habitlist.DeleteHabitMsg:
		m.target = msg.ID
		m.state = StateConfirmDelete
		return true, nil
	}
	return false, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateToday
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			// Stay in the form so the user can fix it or press esc
			m.status = "Could not save: " + err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.state = StateToday
		m.form = nil
		m.reload()
	case huh.StateAborted:
		m.state = StateToday
		m.form = nil
	}
	return m, cmd
}

func (m *Model) submitForm() error {
	switch m.state {
	case StateAddHabit:
		h, err := m.svc.Create(m.fields.NewHabit())
		if err != nil {
			return err
		}
		m.status = "Added " + h.Title
		m.habits.Select(m.habits.Len())
	case StateEditHabit:
		h, err := m.svc.Update(m.target, m.fields.Patch())
		if err != nil {
			return err
		}
		m.status = "Updated " + h.Title
	case StateReminder:
		h, err := m.svc.SetReminder(m.target, m.remind.On, m.remind.Time)
		if err != nil {
			return err
		}
		if h.IsReminderOn {
			m.status = "Reminder set for " + h.ReminderTime
		} else {
			m.status = "Reminder off"
		}
	}
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.svc.Delete(m.target); err != nil {
			m.status = "Could not delete: " + err.Error()
		} else {
			m.status = "Habit deleted"
		}
		m.target = ""
		m.state = StateToday
		m.reload()
	case key.Matches(keyMsg, m.keys.Cancel):
		m.target = ""
		m.state = StateToday
	}
	return m, nil
}
