package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/aura/internal/models"
)

var loc = time.FixedZone("test", -5*3600)

// Thursday 2026-03-12 at 10:00
var now = time.Date(2026, 3, 12, 10, 0, 0, 0, loc)

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func TestLastNDays(t *testing.T) {
	habits := []models.Habit{
		{ID: "a", CompletedDates: []time.Time{daysAgo(0), daysAgo(1), daysAgo(6)}},
		{ID: "b", CompletedDates: []time.Time{daysAgo(0), daysAgo(7)}},
	}

	days := LastNDays(habits, now, 7)
	if len(days) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(days))
	}

	wantCounts := []int{1, 0, 0, 0, 0, 1, 2}
	for i, want := range wantCounts {
		if days[i].Count != want {
			t.Errorf("bucket %d (%s): expected %d, got %d", i, days[i].Label, want, days[i].Count)
		}
	}

	// Oldest first, last bucket is today
	if !days[0].Day.Before(days[6].Day) {
		t.Error("expected buckets ordered oldest to newest")
	}
	if days[6].Label != "Thu" {
		t.Errorf("expected last bucket Thu, got %s", days[6].Label)
	}
}

func TestLastNDaysNonPositive(t *testing.T) {
	habits := []models.Habit{{ID: "a", CompletedDates: []time.Time{daysAgo(0)}}}
	for _, n := range []int{0, -1} {
		if days := LastNDays(habits, now, n); days != nil {
			t.Errorf("LastNDays(n=%d) = %v, want nil", n, days)
		}
	}
}

func TestTotalsAndStreaks(t *testing.T) {
	habits := []models.Habit{
		// Duplicates count toward the total
		{ID: "a", CompletedDates: []time.Time{daysAgo(1), daysAgo(1), daysAgo(2)}},
		{ID: "b", CompletedDates: []time.Time{daysAgo(10), daysAgo(11), daysAgo(12), daysAgo(13)}},
	}

	if got := TotalCompletions(habits); got != 7 {
		t.Errorf("TotalCompletions() = %d, want 7", got)
	}
	// a is alive through the grace day with 2, b is broken
	if got := BestStreak(habits, now); got != 2 {
		t.Errorf("BestStreak() = %d, want 2", got)
	}
	if got := LongestStreak(habits, loc); got != 4 {
		t.Errorf("LongestStreak() = %d, want 4", got)
	}
	if got := BestStreak(nil, now); got != 0 {
		t.Errorf("BestStreak(nil) = %d, want 0", got)
	}
}

func TestWeek(t *testing.T) {
	tests := []struct {
		name  string
		first time.Weekday
		start string
	}{
		{name: "monday start", first: time.Monday, start: "2026-03-09"},
		{name: "sunday start", first: time.Sunday, start: "2026-03-08"},
		{name: "thursday start is today", first: time.Thursday, start: "2026-03-12"},
		{name: "friday start wraps back", first: time.Friday, start: "2026-03-06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week := Week(now, tt.first)
			if len(week) != 7 {
				t.Fatalf("expected 7 days, got %d", len(week))
			}
			if got := week[0].Format("2006-01-02"); got != tt.start {
				t.Errorf("week starts %s, want %s", got, tt.start)
			}
			if week[0].Weekday() != tt.first {
				t.Errorf("week starts on %s, want %s", week[0].Weekday(), tt.first)
			}
			found := false
			for _, d := range week {
				if d.Day() == now.Day() {
					found = true
				}
			}
			if !found {
				t.Error("week does not contain today")
			}
		})
	}
}

func TestWeekAcrossDST(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST starts Sunday 2026-03-29
	week := Week(time.Date(2026, 3, 29, 12, 0, 0, 0, madrid), time.Monday)
	for i, d := range week {
		if d.Hour() != 0 || d.Day() != 23+i {
			t.Errorf("day %d = %v, want March %d at midnight", i, d, 23+i)
		}
	}
}

func TestRenderChart(t *testing.T) {
	days := []models.DayCount{
		{Label: "Mon", Count: 0},
		{Label: "Tue", Count: 2},
		{Label: "Wed", Count: 4},
	}
	out := RenderChart(days)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if strings.Count(lines[3], "█") != barWidth {
		t.Errorf("busiest day should fill the bar: %q", lines[3])
	}
	if strings.Count(lines[2], "█") != barWidth/2 {
		t.Errorf("half day should fill half the bar: %q", lines[2])
	}
	if strings.Contains(lines[1], "█") {
		t.Errorf("empty day should have no bar: %q", lines[1])
	}
}

func TestRenderWeekEmpty(t *testing.T) {
	out := RenderWeek(nil, Week(now, time.Monday), now)
	if !strings.Contains(out, "No habits yet.") {
		t.Errorf("expected empty message, got %q", out)
	}
}

func TestStreakLabel(t *testing.T) {
	if StreakLabel(1) != "1 day" || StreakLabel(3) != "3 days" || StreakLabel(0) != "0 days" {
		t.Error("unexpected streak labels")
	}
}
