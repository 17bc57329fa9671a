package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/cli/backups"
	"github.com/julianstephens/aura/internal/cli/habits"
	"github.com/julianstephens/aura/internal/cli/summary"
	"github.com/julianstephens/aura/internal/cli/system"
	"github.com/julianstephens/aura/internal/config"
	"github.com/julianstephens/aura/internal/constants"
	apperrors "github.com/julianstephens/aura/internal/errors"
	"github.com/julianstephens/aura/internal/logger"
	"github.com/julianstephens/aura/internal/storage"
	"github.com/julianstephens/aura/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	DB      string `name:"db" help:"SQLite path or PostgreSQL connection string. Overrides the config file. Use 'keyring' to read it from the OS keyring."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize aura storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check habits for data problems."`
	DebugCmd system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Habit  habits.HabitCmd   `cmd:"" help:"Manage habits and completions."`
	Today  summary.TodayCmd  `cmd:"" help:"Show today's habits."`
	Week   summary.WeekCmd   `cmd:"" help:"Show a week of completions."`
	Stats  summary.StatsCmd  `cmd:"" help:"Show streaks, totals and the last seven days."`
	Widget summary.WidgetCmd `cmd:"" help:"Print the compact summary widget."`

	Notify    system.NotifyCmd    `cmd:"" hidden:"" help:"Send the reminders due this minute (used by cron)."`
	Reminders system.RemindersCmd `cmd:"" help:"Inspect and run daily reminders."`
	Backup    backups.BackupCmd   `cmd:"" help:"Manage database backups."`
	Keyring   system.KeyringCmd   `cmd:"" help:"Manage the connection string in the OS keyring."`
	Settings  system.SettingsCmd  `cmd:"" help:"Show or change settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily habit tracker with streaks and reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatalf("failed to load config: %v", err)
	}
	if CLI.DB != "" {
		cfg.Database = CLI.DB
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: config.Dir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting aura", "command", ctx.Command(), "config", CLI.Config)

	store, err := cli.OpenStore(cfg)
	if err != nil {
		// Keyring and settings commands are how a broken database setting
		// gets fixed, so they must run without one
		if !needsNoStore(ctx.Command()) {
			apperrors.Fatal(err)
		}
		logger.Warn("Database unavailable", "error", err)
		store = placeholderStore()
	}

	appCtx := cli.New(cfg, CLI.Config, store, os.Stdout)
	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	apperrors.Fatal(err)
}

func needsNoStore(command string) bool {
	return strings.HasPrefix(command, "keyring") || strings.HasPrefix(command, "settings")
}

// placeholderStore is never opened.
func placeholderStore() storage.Provider {
	return sqlite.NewStore(constants.DefaultDBPath)
}
