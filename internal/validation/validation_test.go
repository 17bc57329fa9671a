package validation

import (
	"errors"
	"testing"

	apperrors "github.com/julianstephens/aura/internal/errors"
	"github.com/julianstephens/aura/internal/models"
)

func TestValidateHabits(t *testing.T) {
	tests := []struct {
		name   string
		habits []models.Habit
		want   []ConflictType
	}{
		{
			name: "clean",
			habits: []models.Habit{
				{ID: "1", Title: "Read", HexColor: "7F5AF0", IsReminderOn: true, ReminderTime: "09:00"},
				{ID: "2", Title: "Walk", HexColor: "#2cb67d"},
			},
		},
		{
			name: "duplicate titles ignore case",
			habits: []models.Habit{
				{ID: "1", Title: "Read", HexColor: "7F5AF0"},
				{ID: "2", Title: "read ", HexColor: "7F5AF0"},
			},
			want: []ConflictType{ConflictDuplicateTitle},
		},
		{
			name:   "empty title",
			habits: []models.Habit{{ID: "1", Title: "  ", HexColor: "7F5AF0"}},
			want:   []ConflictType{ConflictEmptyTitle},
		},
		{
			name:   "bad color",
			habits: []models.Habit{{ID: "1", Title: "Read", HexColor: "purple"}},
			want:   []ConflictType{ConflictInvalidColor},
		},
		{
			name: "bad reminder only when on",
			habits: []models.Habit{
				{ID: "1", Title: "Read", HexColor: "7F5AF0", IsReminderOn: true, ReminderTime: "9am"},
				{ID: "2", Title: "Walk", HexColor: "7F5AF0", IsReminderOn: false, ReminderTime: "9am"},
			},
			want: []ConflictType{ConflictInvalidReminderTime},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateHabits(tt.habits)
			if len(result.Conflicts) != len(tt.want) {
				t.Fatalf("expected %d conflicts, got %d: %s", len(tt.want), len(result.Conflicts), result.FormatReport())
			}
			for i, want := range tt.want {
				if result.Conflicts[i].Type != want {
					t.Errorf("conflict %d: expected %s, got %s", i, want, result.Conflicts[i].Type)
				}
			}
		})
	}
}

func TestFormatReport(t *testing.T) {
	empty := ValidationResult{}
	if got := empty.FormatReport(); got != "No conflicts detected." {
		t.Errorf("unexpected report: %q", got)
	}
}

func TestFieldValidators(t *testing.T) {
	if err := ValidateTitle(" "); !errors.Is(err, apperrors.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if err := ValidateTitle("Read"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	colors := map[string]bool{"7F5AF0": true, "#e45858": true, "FFF": false, "GGGGGG": false, "": false}
	for color, ok := range colors {
		if err := ValidateHexColor(color); (err == nil) != ok {
			t.Errorf("ValidateHexColor(%q) error = %v, want ok=%v", color, err, ok)
		}
	}

	clocks := map[string]bool{"09:00": true, "23:59": true, "24:00": false, "9am": false, "": false}
	for clock, ok := range clocks {
		if err := ValidateReminderTime(clock); (err == nil) != ok {
			t.Errorf("ValidateReminderTime(%q) error = %v, want ok=%v", clock, err, ok)
		}
	}

	if got := NormalizeHexColor(" #e45858"); got != "E45858" {
		t.Errorf("NormalizeHexColor() = %q", got)
	}
}
