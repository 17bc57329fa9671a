package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/aura/internal/backup"
	"github.com/julianstephens/aura/internal/config"
	"github.com/julianstephens/aura/internal/events"
	"github.com/julianstephens/aura/internal/habits"
	"github.com/julianstephens/aura/internal/keyring"
	"github.com/julianstephens/aura/internal/logger"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/notifier"
	"github.com/julianstephens/aura/internal/reminders"
	"github.com/julianstephens/aura/internal/storage"
	"github.com/julianstephens/aura/internal/storage/postgres"
	"github.com/julianstephens/aura/internal/storage/sqlite"
	"github.com/julianstephens/aura/internal/utils"
)

// Context is passed to every command's Run method.
type Context struct {
	Config     *config.Config
	ConfigPath string
	Store      storage.Provider
	Bus        *events.Bus
	Reminders  *reminders.Daily
	Service    *habits.Service
	Signal     *events.FileSignal
	Out        io.Writer

	pending func()
	changed <-chan struct{}
}

// New wires the habit service, reminder registry and refresh signal around
// store. Nothing is read until Open.
func New(cfg *config.Config, configPath string, store storage.Provider, out io.Writer) *Context {
	if out == nil {
		out = os.Stdout
	}

	bus := events.NewBus()
	daily := reminders.NewDaily(notifier.New(),
		reminders.WithFiredLog(store),
		reminders.WithTick(cfg.ReminderTick()),
		reminders.WithClock(cfg.Now),
	)

	c := &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Store:      store,
		Bus:        bus,
		Reminders:  daily,
		Service:    habits.New(store, daily, bus, habits.WithClock(cfg.Now)),
		Out:        out,
	}
	c.Signal = events.NewFileSignal(events.SignalPath(c.DataDir()))
	return c
}

// OpenStore picks the storage backend for cfg.Database. A "keyring"
// setting reads the connection string from the OS keyring, which may carry
// a password; connection strings from anywhere else may not.
func OpenStore(cfg *config.Config) (storage.Provider, error) {
	dsn, fromKeyring, err := keyring.Resolve(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
	}

	if storage.IsPostgres(dsn) || strings.Contains(dsn, "host=") {
		if !fromKeyring {
			if err := postgres.ValidateConnString(dsn); err != nil {
				return nil, err
			}
		}
		return postgres.New(dsn), nil
	}

	path, err := utils.ExpandHome(dsn)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// Open loads the store, the habits and their reminders.
func (c *Context) Open() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	if err := c.Service.Load(); err != nil {
		return err
	}
	if err := c.Reminders.Restore(); err != nil {
		logger.Warn("Failed to restore reminder log", "error", err)
	}

	if c.pending == nil {
		c.changed, c.pending = c.Bus.Subscribe()
	}
	return nil
}

// Close writes the refresh signal if the command changed anything, then
// closes the store.
func (c *Context) Close() error {
	if c.pending != nil {
		select {
		case <-c.changed:
			if err := c.Signal.Touch(); err != nil {
				logger.Warn("Failed to write refresh signal", "path", c.Signal.Path(), "error", err)
			}
		default:
		}
		c.pending()
		c.pending = nil
	}
	return c.Store.Close()
}

// Now is the current time in the configured timezone.
func (c *Context) Now() time.Time {
	return c.Config.Now()
}

// SQLitePath returns the database file, or "" for PostgreSQL.
func (c *Context) SQLitePath() string {
	if s, ok := c.Store.(*sqlite.Store); ok {
		return s.GetConfigPath()
	}
	return ""
}

// DataDir holds the refresh signal and backups: next to the SQLite file, or
// the config directory for PostgreSQL.
func (c *Context) DataDir() string {
	if path := c.SQLitePath(); path != "" {
		return filepath.Dir(path)
	}
	return config.Dir(c.ConfigPath)
}

// Backups returns the backup manager, or nil for PostgreSQL.
func (c *Context) Backups() *backup.Manager {
	path := c.SQLitePath()
	if path == "" {
		return nil
	}
	return backup.NewManager(path)
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr := c.Backups()
	if mgr == nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// ParseDay parses YYYY-MM-DD in the configured timezone; "" and "today"
// mean today.
func (c *Context) ParseDay(s string) (time.Time, error) {
	now := c.Now()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return utils.AddDays(now, -1), nil
	}
	day, err := utils.ParseDateInLocation(s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return day, nil
}

// DescribeReminder renders a habit's reminder state.
func DescribeReminder(h models.Habit) string {
	if !h.IsReminderOn {
		return "off"
	}
	return h.ReminderTime
}
