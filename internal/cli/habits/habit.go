package habits

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/stats"
	"github.com/julianstephens/aura/internal/widget"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Toggle   HabitToggleCmd   `cmd:"" help:"Toggle a habit's completion for a day."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit's title or appearance."`
	Reminder HabitReminderCmd `cmd:"" help:"Turn a habit's daily reminder on or off."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit and its history."`
}

type HabitAddCmd struct {
	Title  string `arg:"" help:"Habit title."`
	Icon   string `help:"Icon symbol (e.g. flame.fill)."`
	Color  string `help:"Hex color (e.g. 2CB67D)."`
	Remind string `help:"Daily reminder time (HH:MM)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	habit, err := ctx.Service.Create(models.NewHabit{
		Title:        c.Title,
		IconSymbol:   c.Icon,
		HexColor:     c.Color,
		IsReminderOn: c.Remind != "",
		ReminderTime: c.Remind,
	})
	if err != nil {
		return err
	}

	ctx.Printf("✓ Added habit: %s\n", habit.Title)
	if habit.IsReminderOn {
		ctx.Printf("  Reminder set for %s\n", habit.ReminderTime)
	}
	return nil
}

type HabitListCmd struct {
	IDs bool `help:"Show habit IDs."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	list := ctx.Service.List()
	if len(list) == 0 {
		ctx.Println("No habits yet. Add one with 'aura habit add TITLE'.")
		return nil
	}

	now := ctx.Now()
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	for _, h := range list {
		mark := "[ ]"
		if h.IsCompleted(now) {
			mark = "[✓]"
		}
		line := fmt.Sprintf("%s\t%s %s\t%s\treminder %s", mark, widget.Glyph(h.IconSymbol), h.Title,
			stats.StreakLabel(h.StreakAt(now)), cli.DescribeReminder(h))
		if c.IDs {
			line += "\t" + h.ID
		}
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Date  string `help:"Day to toggle (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	if day.After(ctx.Now()) {
		return errors.New("cannot complete a habit in the future")
	}

	habit, err := ctx.Service.Resolve(c.Habit)
	if err != nil {
		return err
	}
	habit, err = ctx.Service.Toggle(habit.ID, day)
	if err != nil {
		return err
	}

	state := "not done"
	if habit.IsCompleted(day) {
		state = "done"
	}
	ctx.Printf("✓ %s marked %s for %s (%s)\n", habit.Title, state, day.Format("2006-01-02"),
		stats.StreakLabel(habit.StreakAt(ctx.Now())))
	return nil
}

type HabitEditCmd struct {
	Habit string  `arg:"" help:"Habit title or ID."`
	Title *string `help:"New title."`
	Icon  *string `help:"New icon symbol."`
	Color *string `help:"New hex color."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if c.Title == nil && c.Icon == nil && c.Color == nil {
		return errors.New("nothing to change: pass --title, --icon or --color")
	}
	if err := ctx.Open(); err != nil {
		return err
	}

	habit, err := ctx.Service.Resolve(c.Habit)
	if err != nil {
		return err
	}
	habit, err = ctx.Service.Update(habit.ID, models.HabitPatch{
		Title:      c.Title,
		IconSymbol: c.Icon,
		HexColor:   c.Color,
	})
	if err != nil {
		return err
	}

	ctx.Printf("✓ Updated habit: %s\n", habit.Title)
	return nil
}

type HabitReminderCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	At    string `help:"Reminder time (HH:MM). Turns the reminder on." xor:"mode"`
	Off   bool   `help:"Turn the reminder off." xor:"mode"`
}

func (c *HabitReminderCmd) Run(ctx *cli.Context) error {
	if c.At == "" && !c.Off {
		return errors.New("pass --at HH:MM or --off")
	}
	if err := ctx.Open(); err != nil {
		return err
	}

	habit, err := ctx.Service.Resolve(c.Habit)
	if err != nil {
		return err
	}
	habit, err = ctx.Service.SetReminder(habit.ID, !c.Off, c.At)
	if err != nil {
		return err
	}

	if habit.IsReminderOn {
		ctx.Printf("✓ Reminder for %s set to %s\n", habit.Title, habit.ReminderTime)
	} else {
		ctx.Printf("✓ Reminder for %s turned off\n", habit.Title)
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	habit, err := ctx.Service.Resolve(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Service.Delete(habit.ID); err != nil {
		return err
	}

	ctx.Printf("✓ Deleted habit: %s (%s removed)\n", strings.TrimSpace(habit.Title), completionsLabel(habit.TotalCompletions()))
	return nil
}

func completionsLabel(n int) string {
	if n == 1 {
		return "1 completion"
	}
	return fmt.Sprintf("%d completions", n)
}
