package models

import "time"

// Reminder is a daily notification registered for a habit
type Reminder struct {
	HabitID   string     `json:"habit_id"`
	Title     string     `json:"title"`
	Hour      int        `json:"hour"`
	Minute    int        `json:"minute"`
	LastFired *time.Time `json:"last_fired,omitempty"`
}

// DayCount is one bucket of the daily performance chart
type DayCount struct {
	Day   time.Time `json:"day"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

// SummaryHabit is a habit as shown on the summary display
type SummaryHabit struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	IconSymbol string `json:"icon_symbol"`
	HexColor   string `json:"hex_color"`
	DoneToday  bool   `json:"done_today"`
}

// Summary is a point-in-time snapshot for the summary display
type Summary struct {
	Date       time.Time      `json:"date"`
	Habits     []SummaryHabit `json:"habits"`
	TotalCount int            `json:"total_count"`
	Overflow   int            `json:"overflow"`
}
