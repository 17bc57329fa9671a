package habits

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/aura/internal/cli"
	"github.com/julianstephens/aura/internal/config"
	apperrors "github.com/julianstephens/aura/internal/errors"
	"github.com/julianstephens/aura/internal/storage/sqlite"
)

func setup(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "aura.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	cfg := config.Default()
	cfg.Timezone = "UTC"
	out := &bytes.Buffer{}
	ctx := cli.New(cfg, filepath.Join(dir, "config.yaml"), store, out)
	t.Cleanup(func() { ctx.Close() })
	return ctx, out
}

func TestAddAndList(t *testing.T) {
	ctx, out := setup(t)

	if err := (&HabitAddCmd{Title: "Read", Icon: "book.fill", Color: "#2cb67d"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := (&HabitAddCmd{Title: "Stretch", Remind: "07:30"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	h, err := ctx.Service.FindByTitle("read")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if h.HexColor != "2CB67D" {
		t.Errorf("expected normalized color, got %q", h.HexColor)
	}

	out.Reset()
	if err := (&HabitListCmd{IDs: true}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	if !strings.Contains(lines[0], "Read") || !strings.Contains(lines[0], h.ID) {
		t.Errorf("expected Read first with its ID, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "reminder 07:30") {
		t.Errorf("expected Stretch reminder, got %q", lines[1])
	}
}

func TestToggle(t *testing.T) {
	ctx, out := setup(t)
	if err := (&HabitAddCmd{Title: "Read"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	tests := []struct {
		name    string
		date    string
		want    string
		wantErr bool
	}{
		{name: "today", date: "today", want: "marked done"},
		{name: "yesterday", date: "yesterday", want: "(2 days)"},
		{name: "today again", date: "today", want: "marked not done"},
		{name: "future", date: "2999-01-01", wantErr: true},
		{name: "bad date", date: "01/02/2026", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := (&HabitToggleCmd{Habit: "Read", Date: tt.date}).Run(ctx)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("toggle failed: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, out.String())
			}
		})
	}
}

func TestEditReminderDelete(t *testing.T) {
	ctx, out := setup(t)
	if err := (&HabitAddCmd{Title: "Stretch"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := (&HabitEditCmd{Habit: "Stretch"}).Run(ctx); err == nil {
		t.Error("expected edit without flags to fail")
	}

	title := "Morning stretch"
	if err := (&HabitEditCmd{Habit: "stretch", Title: &title}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if err := (&HabitReminderCmd{Habit: title, At: "06:45"}).Run(ctx); err != nil {
		t.Fatalf("reminder failed: %v", err)
	}
	if got := ctx.Reminders.Reminders(); len(got) != 1 || got[0].Hour != 6 || got[0].Minute != 45 {
		t.Errorf("expected a 06:45 reminder, got %+v", got)
	}

	if err := (&HabitReminderCmd{Habit: title, Off: true}).Run(ctx); err != nil {
		t.Fatalf("reminder off failed: %v", err)
	}
	if got := ctx.Reminders.Reminders(); len(got) != 0 {
		t.Errorf("expected no reminders, got %+v", got)
	}

	out.Reset()
	if err := (&HabitDeleteCmd{Habit: title}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted habit: Morning stretch (0 completions removed)") {
		t.Errorf("unexpected output %q", out.String())
	}

	err := (&HabitDeleteCmd{Habit: title}).Run(ctx)
	if !errors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestCompletionsLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 completions"},
		{1, "1 completion"},
		{12, "12 completions"},
	}
	for _, tt := range tests {
		if got := completionsLabel(tt.n); got != tt.want {
			t.Errorf("completionsLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
