package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/config"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/storage/sqlite"
)

func setup(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "aura.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := cli.New(config.Default(), filepath.Join(dir, "config.yaml"), store, out)
	t.Cleanup(func() { ctx.Close() })
	if err := ctx.Open(); err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	return ctx, out
}

func TestCreateAndList(t *testing.T) {
	ctx, out := setup(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "Backup created: aura-") {
		t.Errorf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 total") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRestore(t *testing.T) {
	ctx, out := setup(t)
	if _, err := ctx.Service.Create(models.NewHabit{Title: "Read"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	path, err := ctx.Backups().Create()
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if _, err := ctx.Service.Create(models.NewHabit{Title: "Walk"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cancel := &BackupRestoreCmd{BackupFile: filepath.Base(path), in: strings.NewReader("n\n")}
	if err := cancel.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output %q", out.String())
	}

	restore := &BackupRestoreCmd{BackupFile: filepath.Base(path), in: strings.NewReader("y\n")}
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	all, err := ctx.Store.GetAllHabits()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(all) != 1 || all[0].Title != "Read" {
		t.Errorf("expected only Read after restore, got %+v", all)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	ctx, _ := setup(t)
	cmd := &BackupRestoreCmd{BackupFile: "aura-20990101-000000.db", Yes: true}
	if err := cmd.Run(ctx); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}
