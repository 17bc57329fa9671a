package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/keyring"
	"github.com/julianstephens/aura/internal/notifier"
	"github.com/julianstephens/aura/internal/storage"
	"github.com/julianstephens/aura/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks never fail the run
	warnOnly bool
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Data validation", run: checkValidation, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Notification tray", run: checkTray, warnOnly: true},
	{name: "Keyring", run: checkKeyring, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := false

	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				dbReachable = true
			}
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetAllHabits(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}

	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'aura migrate')", current, latest)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	all, err := ctx.Store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	result := validation.New().ValidateHabits(all)
	if result.HasConflicts() {
		return fmt.Errorf("%d problem(s) found, run 'aura validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if _, err := ctx.Config.Location(); err != nil {
		return fmt.Errorf("configured timezone %q: %w", ctx.Config.Timezone, err)
	}

	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return errors.New("backups are only managed for SQLite storage")
	}

	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found, consider creating one with 'aura backup create'")
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	if !ctx.Config.Notifications.Enabled {
		return nil
	}
	if err := notifier.Ping(); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			return errors.New("tray app is not running, reminders will not be delivered")
		}
		return err
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if ctx.Config.Database != keyring.Reference {
		return nil
	}
	if !keyring.IsAvailable() {
		return errors.New("database is read from the keyring but the keyring is unavailable")
	}
	return nil
}
