package system

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/events"
	"github.com/julianstephens/aura/internal/logger"
	"github.com/julianstephens/aura/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	first, err := ctx.Config.FirstWeekday()
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Our own writes come back through the watch too; reloading is idempotent
	go ctx.Signal.Forward(runCtx, ctx.Bus)
	changed, err := events.WatchFile(runCtx, ctx.Signal.Path())
	if err != nil {
		return err
	}

	if ctx.Config.Notifications.Enabled {
		go func() {
			if err := ctx.Reminders.Run(runCtx); err != nil {
				logger.Warn("Reminder loop stopped", "error", err)
			}
		}()
	}

	m := tui.NewModel(ctx.Service, tui.Options{
		Now:          ctx.Now,
		FirstWeekday: first,
		Changed:      changed,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
