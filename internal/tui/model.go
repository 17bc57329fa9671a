package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/aura/internal/habits"
	"github.com/julianstephens/aura/internal/tui/components/habitlist"
	"github.com/julianstephens/aura/internal/validation"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateWeek
	StateStats
	StateAddHabit
	StateEditHabit
	StateReminder
	StateConfirmDelete
)

// tabCount is the number of tab states at the start of SessionState
const tabCount = 3

var tabTitles = []string{"Today", "Week", "Stats"}

type Options struct {
	Now          func() time.Time
	FirstWeekday time.Weekday
	// Changed delivers refresh signals from other processes; may be nil.
	Changed <-chan struct{}
}

type Model struct {
	svc     *habits.Service
	opts    Options
	state   SessionState
	keys    KeyMap
	help    help.Model
	habits  habitlist.Model
	form    *huh.Form
	fields  *HabitFormModel
	remind  *ReminderFormModel
	target  string
	status  string
	warning string

	quitting bool
	width    int
	height   int
}

func NewModel(svc *habits.Service, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		svc:    svc,
		opts:   opts,
		state:  StateToday,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		habits: habitlist.New(svc.List(), opts.Now(), 0, 0),
	}
	m.updateValidationStatus()
	return m
}

// refreshMsg means another process changed the habits.
type refreshMsg struct{}

// waitForChange turns the next signal on ch into a refreshMsg.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.opts.Changed)
}

// reload redraws the list from the service's in-memory habits.
func (m *Model) reload() {
	m.habits.SetHabits(m.svc.List(), m.opts.Now())
	m.updateValidationStatus()
}

func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateHabits(m.svc.List())
	if result.HasConflicts() {
		m.warning = result.Conflicts[0].Description
		return
	}
	m.warning = ""
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateToday {
		keys = append(keys, m.habits.ShortHelp()...)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	if m.state != StateToday {
		return [][]key.Binding{global}
	}
	return append([][]key.Binding{global}, m.habits.FullHelp()...)
}
