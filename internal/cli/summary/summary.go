package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/events"
	"github.com/julianstephens/aura/internal/logger"
	"github.com/julianstephens/aura/internal/stats"
	"github.com/julianstephens/aura/internal/utils"
	"github.com/julianstephens/aura/internal/widget"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	now := ctx.Now()
	list := ctx.Service.List()
	ctx.Printf("Today, %s\n\n", now.Format("Monday, January 2"))
	if len(list) == 0 {
		ctx.Println("No habits yet. Add one with 'aura habit add TITLE'.")
		return nil
	}

	done := 0
	for _, h := range list {
		mark := "○"
		if h.IsCompleted(now) {
			mark = "●"
			done++
		}
		ctx.Printf("  %s %s %s  (%s)\n", mark, widget.Glyph(h.IconSymbol), h.Title, stats.StreakLabel(h.StreakAt(now)))
	}
	ctx.Printf("\n%d of %d done\n", done, len(list))
	return nil
}

type WeekCmd struct {
	Date string `help:"Any day of the week to show (YYYY-MM-DD)." default:"today"`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	first, err := ctx.Config.FirstWeekday()
	if err != nil {
		return err
	}

	ctx.Printf("%s", stats.RenderWeek(ctx.Service.List(), stats.Week(day, first), ctx.Now()))
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	ctx.Printf("%s", stats.Render(ctx.Service.List(), ctx.Now()))
	return nil
}

type WidgetCmd struct {
	Watch bool `help:"Keep running and redraw whenever habits change."`
	JSON  bool `name:"json" help:"Print the summary as JSON."`
	Limit int  `help:"Number of habits to show (defaults to widget.limit from config)."`
}

func (c *WidgetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	if !c.Watch {
		return c.render(ctx)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.watch(sigCtx, ctx)
}

func (c *WidgetCmd) limit(ctx *cli.Context) int {
	if c.Limit > 0 {
		return c.Limit
	}
	return ctx.Config.Widget.Limit
}

func (c *WidgetCmd) render(ctx *cli.Context) error {
	s := widget.Build(ctx.Service.List(), ctx.Now(), c.limit(ctx))
	if c.JSON {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}
	ctx.Println(widget.Render(s))
	return nil
}

// watch redraws on every refresh signal written by another aura process and
// at each midnight.
func (c *WidgetCmd) watch(watchCtx context.Context, ctx *cli.Context) error {
	changed, err := events.WatchFile(watchCtx, ctx.Signal.Path())
	if err != nil {
		return err
	}

	for {
		if !c.JSON {
			// Clear screen
			ctx.Printf("\033[H\033[2J")
		}
		if err := c.render(ctx); err != nil {
			return err
		}

		now := ctx.Now()
		midnight := time.NewTimer(utils.AddDays(utils.StartOfDay(now), 1).Sub(now))

		select {
		case <-watchCtx.Done():
			midnight.Stop()
			return nil
		case _, ok := <-changed:
			midnight.Stop()
			if !ok {
				return nil
			}
			if err := ctx.Service.Load(); err != nil {
				logger.Error("Failed to reload habits", "error", err)
			}
		case <-midnight.C:
		}
	}
}
