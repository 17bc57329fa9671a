package models

import (
	"sort"
	"time"

	"github.com/julianstephens/aura/internal/constants"
	"github.com/julianstephens/aura/internal/utils"
)

// Habit represents a recurring practice tracked by calendar-day completion
type Habit struct {
	ID             string      `json:"id" db:"id"`
	Title          string      `json:"title" db:"title"`
	IconSymbol     string      `json:"icon_symbol" db:"icon_symbol"`
	HexColor       string      `json:"hex_color" db:"hex_color"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	CompletedDates []time.Time `json:"completed_dates" db:"-"`
	IsReminderOn   bool        `json:"is_reminder_on" db:"is_reminder_on"`
	ReminderTime   string      `json:"reminder_time" db:"reminder_time"` // HH:MM format
}

// NewHabit holds the user-supplied fields of a habit being created
type NewHabit struct {
	Title        string
	IconSymbol   string
	HexColor     string
	IsReminderOn bool
	ReminderTime string
}

// WithDefaults fills empty appearance and reminder fields.
func (n NewHabit) WithDefaults() NewHabit {
	if n.IconSymbol == "" {
		n.IconSymbol = constants.DefaultIconSymbol
	}
	if n.HexColor == "" {
		n.HexColor = constants.DefaultHexColor
	}
	if n.ReminderTime == "" {
		n.ReminderTime = constants.DefaultReminder
	}
	return n
}

// ToHabit builds a habit with no completions from the defaulted fields.
func (n NewHabit) ToHabit(id string, createdAt time.Time) Habit {
	n = n.WithDefaults()
	return Habit{
		ID:             id,
		Title:          n.Title,
		IconSymbol:     n.IconSymbol,
		HexColor:       n.HexColor,
		CreatedAt:      createdAt,
		CompletedDates: []time.Time{},
		IsReminderOn:   n.IsReminderOn,
		ReminderTime:   n.ReminderTime,
	}
}

// IsCompleted reports whether any completion falls on the same calendar day
// as date, evaluated in date's location.
func (h *Habit) IsCompleted(date time.Time) bool {
	for _, completed := range h.CompletedDates {
		if utils.SameDay(completed, date) {
			return true
		}
	}
	return false
}

// ToggleCompletion removes one completion on date's calendar day if there is
// one, and records date as a completion otherwise.
func (h *Habit) ToggleCompletion(date time.Time) {
	for i, completed := range h.CompletedDates {
		if utils.SameDay(completed, date) {
			h.CompletedDates = append(h.CompletedDates[:i:i], h.CompletedDates[i+1:]...)
			return
		}
	}
	h.CompletedDates = append(h.CompletedDates, date)
}

// CalculateStreak returns the current streak as of now.
func (h *Habit) CalculateStreak() int {
	return h.StreakAt(time.Now())
}

// StreakAt returns the number of consecutive completed days ending at the
// most recent completed day. The streak is only alive if that day is today or
// yesterday relative to now; otherwise it is 0.
func (h *Habit) StreakAt(now time.Time) int {
	days := h.daySet(now.Location())
	if len(days) == 0 {
		return 0
	}

	today := utils.StartOfDay(now)
	yesterday := utils.AddDays(today, -1)

	var last time.Time
	for _, day := range days {
		if day.After(last) {
			last = day
		}
	}
	if last.Before(yesterday) {
		return 0
	}

	streak := 0
	for check := last; ; check = utils.AddDays(check, -1) {
		if _, ok := days[check.Format(constants.DateFormat)]; !ok {
			break
		}
		streak++
	}
	return streak
}

// BestStreak returns the longest run of consecutive completed days anywhere
// in the history, evaluated in loc.
func (h *Habit) BestStreak(loc *time.Location) int {
	keys := h.CompletedDays(loc)
	best, run := 0, 0
	var prev time.Time
	for i, key := range keys {
		day, err := utils.ParseDateInLocation(key, loc)
		if err != nil {
			continue
		}
		if i > 0 && utils.AddDays(prev, 1).Format(constants.DateFormat) == key {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = day
	}
	return best
}

// CompletedDays returns the distinct completed days as YYYY-MM-DD keys in
// ascending order.
func (h *Habit) CompletedDays(loc *time.Location) []string {
	days := h.daySet(loc)
	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// TotalCompletions counts every recorded completion, duplicates included.
func (h *Habit) TotalCompletions() int {
	return len(h.CompletedDates)
}

// daySet normalizes completions to midnight in loc, keyed by YYYY-MM-DD.
func (h *Habit) daySet(loc *time.Location) map[string]time.Time {
	days := make(map[string]time.Time, len(h.CompletedDates))
	for _, completed := range h.CompletedDates {
		day := utils.StartOfDay(completed.In(loc))
		days[day.Format(constants.DateFormat)] = day
	}
	return days
}

// Clone returns a copy that shares no completion storage with h.
func (h Habit) Clone() Habit {
	if h.CompletedDates != nil {
		h.CompletedDates = append([]time.Time(nil), h.CompletedDates...)
	}
	return h
}

// HabitPatch holds optional title and appearance edits. Nil fields are kept.
type HabitPatch struct {
	Title      *string
	IconSymbol *string
	HexColor   *string
}

// Apply writes the non-nil fields onto h.
func (p HabitPatch) Apply(h *Habit) {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.IconSymbol != nil {
		h.IconSymbol = *p.IconSymbol
	}
	if p.HexColor != nil {
		h.HexColor = *p.HexColor
	}
}
