package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/config"
	"github.com/julianstephens/aura/internal/storage"
	"github.com/julianstephens/aura/internal/storage/postgres"
	"github.com/julianstephens/aura/internal/storage/sqlite"
	"github.com/julianstephens/aura/internal/utils"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing SQLite database before initialization."`
	Source string `help:"SQLite path or PostgreSQL connection string to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized aura storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
			if err := config.Save(ctx.ConfigPath, ctx.Config); err != nil {
				return err
			}
			ctx.Printf("Wrote default config to: %s\n", ctx.ConfigPath)
		}
	}

	if c.Source != "" {
		ctx.Printf("Copying habits from: %s\n", c.Source)
		n, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Copied %d habit(s).\n", n)
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.SQLitePath()
	if dbPath == "" {
		return errors.New("--force only supports SQLite storage")
	}

	if c.Source != "" {
		absDB, err1 := filepath.Abs(dbPath)
		absSource, err2 := filepath.Abs(c.Source)
		if err1 == nil && err2 == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) (int, error) {
	var source storage.Provider
	if storage.IsPostgres(c.Source) {
		if err := postgres.ValidateConnString(c.Source); err != nil {
			return 0, err
		}
		source = postgres.New(c.Source)
	} else {
		path, err := utils.ExpandHome(c.Source)
		if err != nil {
			return 0, err
		}
		source = sqlite.NewStore(path)
	}

	if err := source.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	all, err := source.GetAllHabits()
	if err != nil {
		return 0, fmt.Errorf("failed to read habits from source: %w", err)
	}
	for _, h := range all {
		if err := ctx.Store.AddHabit(h); err != nil {
			return 0, fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}

	fired, err := source.GetReminderLog()
	if err != nil {
		return 0, fmt.Errorf("failed to read reminder log from source: %w", err)
	}
	for id, at := range fired {
		if err := ctx.Store.MarkReminderFired(id, at); err != nil {
			return 0, fmt.Errorf("failed to copy reminder log for %s: %w", id, err)
		}
	}
	return len(all), nil
}
