package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/stats"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show database and signal file locations."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit as JSON."`
	Reminders DebugRemindersCmd `cmd:"" help:"Dump the reminder registry as JSON."`
}

func printJSON(ctx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path":   ctx.Store.GetConfigPath(),
		"config": ctx.ConfigPath,
		"signal": ctx.Signal.Path(),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	habit, err := ctx.Service.Resolve(cmd.Habit)
	if err != nil {
		return err
	}

	now := ctx.Now()
	return printJSON(ctx, struct {
		Habit         interface{} `json:"habit"`
		DoneToday     bool        `json:"done_today"`
		Streak        int         `json:"streak"`
		BestStreak    int         `json:"best_streak"`
		CompletedDays []string    `json:"completed_days"`
		StreakLabel   string      `json:"streak_label"`
	}{
		Habit:         habit,
		DoneToday:     habit.IsCompleted(now),
		Streak:        habit.StreakAt(now),
		BestStreak:    habit.BestStreak(now.Location()),
		CompletedDays: habit.CompletedDays(now.Location()),
		StreakLabel:   stats.StreakLabel(habit.StreakAt(now)),
	})
}

type DebugRemindersCmd struct{}

func (cmd *DebugRemindersCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return printJSON(ctx, ctx.Reminders.Reminders())
}
