package tui

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/aura/internal/constants"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/validation"
	"github.com/julianstephens/aura/internal/widget"
)

type HabitFormModel struct {
	Title        string
	IconSymbol   string
	HexColor     string
	IsReminderOn bool
	ReminderTime string
}

func newHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		IconSymbol:   constants.DefaultIconSymbol,
		HexColor:     constants.DefaultHexColor,
		ReminderTime: constants.DefaultReminder,
	}
}

func habitFormFrom(h models.Habit) *HabitFormModel {
	return &HabitFormModel{
		Title:        h.Title,
		IconSymbol:   h.IconSymbol,
		HexColor:     h.HexColor,
		IsReminderOn: h.IsReminderOn,
		ReminderTime: h.ReminderTime,
	}
}

func (f *HabitFormModel) NewHabit() models.NewHabit {
	return models.NewHabit{
		Title:        strings.TrimSpace(f.Title),
		IconSymbol:   f.IconSymbol,
		HexColor:     f.HexColor,
		IsReminderOn: f.IsReminderOn,
		ReminderTime: f.ReminderTime,
	}
}

func (f *HabitFormModel) Patch() models.HabitPatch {
	title := strings.TrimSpace(f.Title)
	return models.HabitPatch{
		Title:      &title,
		IconSymbol: &f.IconSymbol,
		HexColor:   &f.HexColor,
	}
}

type ReminderFormModel struct {
	On   bool
	Time string
}

func iconOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(constants.Icons))
	for i, icon := range constants.Icons {
		opts[i] = huh.NewOption(widget.Glyph(icon)+" "+icon, icon)
	}
	return opts
}

func colorOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(constants.Palette))
	for i, color := range constants.Palette {
		opts[i] = huh.NewOption("#"+color, color)
	}
	return opts
}

// NewHabitForm asks for title and appearance; withReminder adds the
// reminder fields used when creating a habit.
func NewHabitForm(fm *HabitFormModel, withReminder bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Habit").
			Placeholder("e.g. Read 10 pages").
			Value(&fm.Title).
			Validate(validation.ValidateTitle),
		huh.NewSelect[string]().
			Title("Icon").
			Options(iconOptions()...).
			Value(&fm.IconSymbol),
		huh.NewSelect[string]().
			Title("Color").
			Options(colorOptions()...).
			Value(&fm.HexColor),
	}

	groups := []*huh.Group{huh.NewGroup(fields...)}
	if withReminder {
		groups = append(groups, huh.NewGroup(
			huh.NewConfirm().
				Title("Daily reminder?").
				Value(&fm.IsReminderOn),
			huh.NewInput().
				Title("Reminder time (HH:MM)").
				Value(&fm.ReminderTime).
				Validate(validation.ValidateReminderTime),
		))
	}

	return huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
}

func NewReminderForm(fm *ReminderFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Daily reminder?").
				Value(&fm.On),
			huh.NewInput().
				Title("Reminder time (HH:MM)").
				Value(&fm.Time).
				Validate(validation.ValidateReminderTime),
		),
	).WithTheme(huh.ThemeDracula())
}
