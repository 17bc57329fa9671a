package widget

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/aura/internal/models"
)

func habitsCreated(titles ...string) []models.Habit {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	out := make([]models.Habit, 0, len(titles))
	for i, title := range titles {
		out = append(out, models.Habit{
			ID:         title,
			Title:      title,
			IconSymbol: "star.fill",
			HexColor:   "7F5AF0",
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		habits    []models.Habit
		limit     int
		wantShown []string
		wantOver  int
	}{
		{name: "empty", habits: nil, wantShown: []string{}},
		{name: "under limit", habits: habitsCreated("A", "B"), wantShown: []string{"A", "B"}},
		{name: "at limit", habits: habitsCreated("A", "B", "C"), wantShown: []string{"A", "B", "C"}},
		{name: "overflow", habits: habitsCreated("A", "B", "C", "D", "E"), wantShown: []string{"A", "B", "C"}, wantOver: 2},
		{name: "custom limit", habits: habitsCreated("A", "B", "C"), limit: 1, wantShown: []string{"A"}, wantOver: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Build(tt.habits, now, tt.limit)
			if s.TotalCount != len(tt.habits) {
				t.Errorf("TotalCount = %d, want %d", s.TotalCount, len(tt.habits))
			}
			if s.Overflow != tt.wantOver {
				t.Errorf("Overflow = %d, want %d", s.Overflow, tt.wantOver)
			}
			if len(s.Habits) != len(tt.wantShown) {
				t.Fatalf("shown %d habits, want %d", len(s.Habits), len(tt.wantShown))
			}
			for i, title := range tt.wantShown {
				if s.Habits[i].Title != title {
					t.Errorf("habit %d = %q, want %q", i, s.Habits[i].Title, title)
				}
			}
		})
	}
}

func TestBuildOrdersByCreationAndMarksToday(t *testing.T) {
	now := time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)
	habits := habitsCreated("Old", "Mid", "New", "Newest")
	// Shuffle input order
	habits[0], habits[3] = habits[3], habits[0]
	habits[1].CompletedDates = []time.Time{now.Add(-2 * time.Hour)}

	s := Build(habits, now, 3)
	want := []string{"Old", "Mid", "New"}
	for i, title := range want {
		if s.Habits[i].Title != title {
			t.Errorf("habit %d = %q, want %q", i, s.Habits[i].Title, title)
		}
	}
	if !s.Habits[1].DoneToday {
		t.Error("expected Mid to be done today")
	}
	if s.Habits[0].DoneToday {
		t.Error("expected Old to be not done")
	}
}

func TestRender(t *testing.T) {
	now := time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)

	out := Render(Build(habitsCreated("A", "B", "C", "D"), now, 3))
	if !strings.Contains(out, "Your Aura") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "+1 more...") {
		t.Errorf("missing overflow line:\n%s", out)
	}

	empty := Render(Build(nil, now, 3))
	if !strings.Contains(empty, "No active habits") {
		t.Errorf("missing empty state:\n%s", empty)
	}
	if strings.Contains(empty, "more...") {
		t.Errorf("unexpected overflow line:\n%s", empty)
	}
}

func TestGlyph(t *testing.T) {
	if Glyph("star.fill") != "★" {
		t.Error("expected star glyph")
	}
	if Glyph("unknown.symbol") != "•" {
		t.Error("expected fallback glyph")
	}
}
