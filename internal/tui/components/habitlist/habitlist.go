package habitlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/stats"
	"github.com/julianstephens/aura/internal/widget"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type EditHabitMsg struct {
	ID string
}

type ReminderMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit  models.Habit
	Done   bool
	Streak int
}

func (i Item) Title() string {
	mark := "○"
	if i.Done {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s %s", mark, widget.Glyph(i.Habit.IconSymbol), i.Habit.Title)
}

func (i Item) Description() string {
	desc := "streak " + stats.StreakLabel(i.Streak)
	if i.Habit.IsReminderOn {
		desc += " · reminder " + i.Habit.ReminderTime
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	Edit     key.Binding
	Reminder key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter", "m"),
			key.WithHelp("space", "toggle today"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Reminder: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reminder"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, now time.Time, width, height int) Model {
	l := list.New(items(habits, now), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Edit, keys.Reminder, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func items(habits []models.Habit, now time.Time) []list.Item {
	out := make([]list.Item, len(habits))
	for i, h := range habits {
		out[i] = Item{
			Habit:  h,
			Done:   h.IsCompleted(now),
			Streak: h.StreakAt(now),
		}
	}
	return out
}

// SetHabits replaces the items, keeping the cursor where it was.
func (m *Model) SetHabits(habits []models.Habit, now time.Time) {
	index := m.list.Index()
	m.list.SetItems(items(habits, now))
	if n := len(habits); n > 0 {
		if index >= n {
			index = n - 1
		}
		m.list.Select(index)
	}
}

// Selected returns the highlighted item.
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Select moves the cursor to index.
func (m *Model) Select(index int) {
	m.list.Select(index)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddHabitMsg{} }
		}

		if i, ok := m.Selected(); ok {
			id := i.Habit.ID
			switch {
			case key.Matches(msg, m.keys.Toggle):
				return m, func() tea.Msg { return ToggleHabitMsg{ID: id} }
			case key.Matches(msg, m.keys.Edit):
				return m, func() tea.Msg { return EditHabitMsg{ID: id} }
			case key.Matches(msg, m.keys.Reminder):
				return m, func() tea.Msg { return ReminderMsg{ID: id} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteHabitMsg{ID: id} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// ShortHelp and FullHelp expose the list's bindings to the help view.
func (m Model) ShortHelp() []key.Binding {
	return m.list.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.list.FullHelp()
}
