package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	apperrors "github.com/julianstephens/aura/internal/errors"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/utils"
)

var hexColorPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictEmptyTitle          ConflictType = "empty_title"
	ConflictDuplicateTitle      ConflictType = "duplicate_title"
	ConflictInvalidReminderTime ConflictType = "invalid_reminder_time"
	ConflictInvalidColor        ConflictType = "invalid_color"
)

// Conflict represents a problem found in stored habits
type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks habits loaded from storage
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabits reports empty or duplicate titles, bad colors and bad
// reminder times. Duplicate titles are compared case-insensitively since
// commands address habits by title.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byTitle := make(map[string][]string)
	for _, h := range habits {
		if strings.TrimSpace(h.Title) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyTitle,
				Description: fmt.Sprintf("Habit %s has an empty title", h.ID),
				HabitIDs:    []string{h.ID},
			})
			continue
		}
		key := strings.ToLower(strings.TrimSpace(h.Title))
		byTitle[key] = append(byTitle[key], h.ID)

		if err := ValidateHexColor(h.HexColor); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidColor,
				Description: fmt.Sprintf("Habit %q has invalid color: %s", h.Title, h.HexColor),
				HabitIDs:    []string{h.ID},
			})
		}

		if h.IsReminderOn {
			if err := ValidateReminderTime(h.ReminderTime); err != nil {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidReminderTime,
					Description: fmt.Sprintf("Habit %q has invalid reminder time: %s", h.Title, h.ReminderTime),
					HabitIDs:    []string{h.ID},
				})
			}
		}
	}

	titles := make([]string, 0, len(byTitle))
	for title := range byTitle {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	for _, title := range titles {
		if ids := byTitle[title]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateTitle,
				Description: fmt.Sprintf("Duplicate habit title: %q (IDs: %v)", title, ids),
				HabitIDs:    ids,
			})
		}
	}

	return result
}

// ValidateTitle rejects blank titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.ErrEmptyTitle
	}
	return nil
}

// ValidateHexColor accepts RRGGBB with an optional leading '#'.
func ValidateHexColor(color string) error {
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid color %q (expected RRGGBB)", color)
	}
	return nil
}

// NormalizeHexColor strips a leading '#' and upper-cases the digits.
func NormalizeHexColor(color string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
}

// ValidateReminderTime accepts HH:MM on a 24-hour clock.
func ValidateReminderTime(clock string) error {
	_, _, err := utils.ParseClock(clock)
	return err
}
