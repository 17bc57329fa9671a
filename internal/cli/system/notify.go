package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/constants"
	"github.com/julianstephens/aura/internal/events"
	"github.com/julianstephens/aura/internal/logger"
	"github.com/julianstephens/aura/internal/reminders"
)

// NotifyCmd fires the reminders due this minute once. Meant for cron.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if !ctx.Config.Notifications.Enabled {
		if c.DryRun {
			ctx.Println("Notifications are disabled in config.")
		}
		return nil
	}

	if err := ctx.Open(); err != nil {
		return err
	}

	now := ctx.Now()
	if c.DryRun {
		due := ctx.Reminders.Due(now)
		if len(due) == 0 {
			ctx.Println("No reminders due.")
		}
		for _, r := range due {
			ctx.Printf("[DryRun] %s: %s\n", constants.ReminderTitle, reminders.Body(r.Title))
		}
		return nil
	}

	sent, err := ctx.Reminders.Fire(now)
	if err != nil {
		return fmt.Errorf("failed to send reminders (%d sent): %w", sent, err)
	}
	logger.Debug("Reminders sent", "count", sent)
	return nil
}

type RemindersCmd struct {
	List RemindersListCmd `cmd:"" default:"1" help:"List active reminders."`
	Run  RemindersRunCmd  `cmd:"" help:"Run the reminder loop in the foreground."`
}

type RemindersListCmd struct{}

func (c *RemindersListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	list := ctx.Reminders.Reminders()
	if len(list) == 0 {
		ctx.Println("No reminders set.")
		return nil
	}

	now := ctx.Now()
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	for _, r := range list {
		last := "never"
		if r.LastFired != nil {
			last = r.LastFired.In(now.Location()).Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%02d:%02d\t%s\tlast sent %s\n", r.Hour, r.Minute, r.Title, last)
	}
	return w.Flush()
}

// RemindersRunCmd keeps the registry in step with the database by reloading
// whenever another aura process writes the refresh signal.
type RemindersRunCmd struct{}

func (c *RemindersRunCmd) Run(ctx *cli.Context) error {
	if !ctx.Config.Notifications.Enabled {
		return fmt.Errorf("notifications are disabled in config")
	}
	if err := ctx.Open(); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changed, err := events.WatchFile(runCtx, ctx.Signal.Path())
	if err != nil {
		return err
	}
	go func() {
		for range changed {
			if err := ctx.Service.Load(); err != nil {
				logger.Error("Failed to reload habits", "error", err)
				continue
			}
			if err := ctx.Reminders.Restore(); err != nil {
				logger.Warn("Failed to restore reminder log", "error", err)
			}
		}
	}()

	ctx.Printf("Watching %d reminder(s), press Ctrl+C to stop.\n", len(ctx.Reminders.Reminders()))
	return ctx.Reminders.Run(runCtx)
}
