package system

import (
	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/config"
)

type SettingsCmd struct {
	List                 bool    `help:"List current settings."`
	Timezone             *string `help:"Timezone used for calendar days (Local or an IANA name)."`
	WeekStart            *string `help:"First day of the week (e.g. monday, sun)."`
	NotificationsEnabled *bool   `help:"Enable or disable reminder notifications."`
	ReminderTick         *int    `name:"reminder-tick" help:"Seconds between reminder checks."`
	WidgetLimit          *int    `help:"Number of habits on the summary widget."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config

	if c.List {
		ctx.Printf("Config file: %s\n\n", ctx.ConfigPath)
		ctx.Printf("  Database:              %s\n", cfg.Database)
		ctx.Printf("  Timezone:              %s\n", cfg.Timezone)
		ctx.Printf("  Week Start:            %s\n", cfg.WeekStart)
		ctx.Printf("  Widget Limit:          %d\n", cfg.Widget.Limit)
		ctx.Println("\nNotification Settings:")
		ctx.Printf("  Notifications Enabled: %v\n", cfg.Notifications.Enabled)
		ctx.Printf("  Reminder Tick:         %d s\n", cfg.Notifications.TickSec)
		return nil
	}

	updated := *cfg
	changed := false
	if c.Timezone != nil {
		updated.Timezone = *c.Timezone
		changed = true
	}
	if c.WeekStart != nil {
		updated.WeekStart = *c.WeekStart
		changed = true
	}
	if c.NotificationsEnabled != nil {
		updated.Notifications.Enabled = *c.NotificationsEnabled
		changed = true
	}
	if c.ReminderTick != nil {
		updated.Notifications.TickSec = *c.ReminderTick
		changed = true
	}
	if c.WidgetLimit != nil {
		updated.Widget.Limit = *c.WidgetLimit
		changed = true
	}

	if !changed {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := updated.Validate(); err != nil {
		return err
	}
	if err := config.Save(ctx.ConfigPath, &updated); err != nil {
		return err
	}
	*cfg = updated
	ctx.Println("Settings updated successfully.")
	return nil
}
