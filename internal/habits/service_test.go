package habits

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperrors "github.com/julianstephens/aura/internal/errors"
	"github.com/julianstephens/aura/internal/events"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/reminders"
	"github.com/julianstephens/aura/internal/storage"
	"github.com/julianstephens/aura/internal/storage/sqlite"
)

var errDiskFull = errors.New("disk full")

// flakyStore fails writes while failWrites is set.
type flakyStore struct {
	storage.Provider
	mu         sync.Mutex
	failWrites bool
}

func (f *flakyStore) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = fail
}

func (f *flakyStore) fail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errDiskFull
	}
	return nil
}

func (f *flakyStore) AddHabit(h models.Habit) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.Provider.AddHabit(h)
}

func (f *flakyStore) UpdateHabit(h models.Habit) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.Provider.UpdateHabit(h)
}

func (f *flakyStore) DeleteHabit(id string) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.Provider.DeleteHabit(id)
}

func (f *flakyStore) AddCompletion(id string, at time.Time) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.Provider.AddCompletion(id, at)
}

func (f *flakyStore) RemoveCompletion(id string, day time.Time) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.Provider.RemoveCompletion(id, day)
}

type fixture struct {
	svc     *Service
	store   *flakyStore
	sched   *reminders.Fake
	signals <-chan struct{}
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	db := sqlite.NewStore(filepath.Join(t.TempDir(), "aura.db"))
	if err := db.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := &flakyStore{Provider: db}
	sched := reminders.NewFake()
	bus := events.NewBus()
	signals, cancel := bus.Subscribe()
	t.Cleanup(cancel)

	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	svc := New(store, sched, bus,
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
		WithIDs(func() string {
			n++
			return fmt.Sprintf("habit-%d", n)
		}),
	)
	if err := svc.Load(); err != nil {
		t.Fatalf("failed to load service: %v", err)
	}
	return &fixture{svc: svc, store: store, sched: sched, signals: signals}
}

func (f *fixture) expectSignal(t *testing.T) {
	t.Helper()
	select {
	case <-f.signals:
	default:
		t.Error("expected a refresh signal")
	}
}

func (f *fixture) expectNoSignal(t *testing.T) {
	t.Helper()
	select {
	case <-f.signals:
		t.Error("unexpected refresh signal")
	default:
	}
}

func TestCreate(t *testing.T) {
	f := setupService(t)

	h, err := f.svc.Create(models.NewHabit{Title: "  Read  ", HexColor: "#2cb67d", IsReminderOn: true, ReminderTime: "21:00"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if h.Title != "Read" || h.HexColor != "2CB67D" || h.IconSymbol != "star.fill" {
		t.Errorf("unexpected habit: %+v", h)
	}
	if !f.sched.Has(h.ID) {
		t.Error("expected reminder to be scheduled")
	}
	f.expectSignal(t)

	stored, err := f.store.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("habit not persisted: %v", err)
	}
	if stored.ReminderTime != "21:00" {
		t.Errorf("expected stored reminder 21:00, got %s", stored.ReminderTime)
	}
}

func TestCreateValidation(t *testing.T) {
	f := setupService(t)

	tests := []struct {
		name string
		in   models.NewHabit
	}{
		{name: "empty title", in: models.NewHabit{Title: " "}},
		{name: "bad color", in: models.NewHabit{Title: "Read", HexColor: "purple"}},
		{name: "bad reminder", in: models.NewHabit{Title: "Read", IsReminderOn: true, ReminderTime: "late"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.Create(tt.in); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if len(f.svc.List()) != 0 {
		t.Error("invalid habits should not be stored")
	}
	f.expectNoSignal(t)
}

func TestToggle(t *testing.T) {
	f := setupService(t)
	h, _ := f.svc.Create(models.NewHabit{Title: "Walk"})
	f.expectSignal(t)

	day := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	got, err := f.svc.Toggle(h.ID, day)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !got.IsCompleted(day) {
		t.Error("expected habit completed after toggle")
	}
	f.expectSignal(t)

	stored, _ := f.store.GetCompletions(h.ID)
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored completion, got %d", len(stored))
	}

	// Toggling later the same day undoes it
	got, err = f.svc.Toggle(h.ID, day.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if got.IsCompleted(day) {
		t.Error("expected habit incomplete after second toggle")
	}
	stored, _ = f.store.GetCompletions(h.ID)
	if len(stored) != 0 {
		t.Errorf("expected no stored completions, got %d", len(stored))
	}
}

func TestToggleRollsBackOnPersistFailure(t *testing.T) {
	f := setupService(t)
	h, _ := f.svc.Create(models.NewHabit{Title: "Walk"})
	f.expectSignal(t)

	f.store.setFail(true)
	day := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	if _, err := f.svc.Toggle(h.ID, day); !errors.Is(err, errDiskFull) {
		t.Fatalf("expected wrapped disk error, got %v", err)
	}

	current, _ := f.svc.Get(h.ID)
	if current.IsCompleted(day) {
		t.Error("in-memory state changed despite persistence failure")
	}
	f.expectNoSignal(t)
}

func TestReturnedHabitIsACopy(t *testing.T) {
	f := setupService(t)
	h, _ := f.svc.Create(models.NewHabit{Title: "Walk"})

	day := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	got, _ := f.svc.Toggle(h.ID, day)
	got.ToggleCompletion(day)

	current, _ := f.svc.Get(h.ID)
	if !current.IsCompleted(day) {
		t.Error("mutating a returned habit changed the service state")
	}
}

func TestSetReminder(t *testing.T) {
	f := setupService(t)
	h, _ := f.svc.Create(models.NewHabit{Title: "Stretch"})
	if f.sched.Has(h.ID) {
		t.Fatal("reminder should be off by default")
	}

	got, err := f.svc.SetReminder(h.ID, true, "07:30")
	if err != nil {
		t.Fatalf("SetReminder failed: %v", err)
	}
	if !got.IsReminderOn || got.ReminderTime != "07:30" {
		t.Errorf("unexpected reminder state: %+v", got)
	}
	if !f.sched.Has(h.ID) {
		t.Error("expected reminder scheduled")
	}

	// Off keeps the time and cancels
	got, err = f.svc.SetReminder(h.ID, false, "")
	if err != nil {
		t.Fatalf("SetReminder failed: %v", err)
	}
	if got.ReminderTime != "07:30" {
		t.Errorf("expected time kept, got %s", got.ReminderTime)
	}
	if f.sched.Has(h.ID) {
		t.Error("expected reminder cancelled")
	}

	if _, err := f.svc.SetReminder(h.ID, true, "7 in the morning"); err == nil {
		t.Error("expected error for invalid time")
	}
}

func TestSchedulerFailureDoesNotFailMutation(t *testing.T) {
	f := setupService(t)
	f.sched.Err = errors.New("scheduler offline")

	h, err := f.svc.Create(models.NewHabit{Title: "Water", IsReminderOn: true, ReminderTime: "10:00"})
	if err != nil {
		t.Fatalf("Create should succeed when scheduling fails: %v", err)
	}
	if _, err := f.svc.Get(h.ID); err != nil {
		t.Errorf("habit should exist: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	f := setupService(t)
	h, _ := f.svc.Create(models.NewHabit{Title: "Read", IsReminderOn: true, ReminderTime: "21:00"})

	title := "Read 20 pages"
	icon := "book.fill"
	got, err := f.svc.Update(h.ID, models.HabitPatch{Title: &title, IconSymbol: &icon})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Title != title || got.IconSymbol != icon || got.HexColor != h.HexColor {
		t.Errorf("unexpected habit after update: %+v", got)
	}
	if f.sched.Scheduled[h.ID].Title != title {
		t.Error("expected reminder rescheduled with new title")
	}

	blank := " "
	if _, err := f.svc.Update(h.ID, models.HabitPatch{Title: &blank}); !errors.Is(err, apperrors.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	f := setupService(t)
	h, _ := f.svc.Create(models.NewHabit{Title: "Journal", IsReminderOn: true, ReminderTime: "22:00"})
	f.expectSignal(t)

	f.store.setFail(true)
	if err := f.svc.Delete(h.ID); err == nil {
		t.Fatal("expected delete to fail")
	}
	if _, err := f.svc.Get(h.ID); err != nil {
		t.Error("habit should survive a failed delete")
	}
	f.expectNoSignal(t)

	f.store.setFail(false)
	if err := f.svc.Delete(h.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := f.svc.Get(h.ID); !errors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
	if f.sched.Has(h.ID) {
		t.Error("expected reminder cancelled")
	}
	f.expectSignal(t)

	if err := f.svc.Delete(h.ID); !errors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound on second delete, got %v", err)
	}
}

func TestListAndFind(t *testing.T) {
	f := setupService(t)
	for _, title := range []string{"First", "Second", "Third"} {
		if _, err := f.svc.Create(models.NewHabit{Title: title}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list := f.svc.List()
	if len(list) != 3 || list[0].Title != "First" || list[2].Title != "Third" {
		t.Errorf("unexpected order: %v", list)
	}

	h, err := f.svc.FindByTitle("second")
	if err != nil || h.Title != "Second" {
		t.Errorf("FindByTitle failed: %v %+v", err, h)
	}
	if _, err := f.svc.FindByTitle("missing"); !errors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}

	byID, err := f.svc.Resolve(list[2].ID)
	if err != nil || byID.Title != "Third" {
		t.Errorf("Resolve by ID failed: %v", err)
	}
}

func TestLoadRestoresFromStore(t *testing.T) {
	f := setupService(t)
	h, _ := f.svc.Create(models.NewHabit{Title: "Run", IsReminderOn: true, ReminderTime: "06:00"})
	day := time.Date(2026, 3, 5, 6, 30, 0, 0, time.UTC)
	if _, err := f.svc.Toggle(h.ID, day); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	sched := reminders.NewFake()
	fresh := New(f.store, sched, nil)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := fresh.Get(h.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.IsCompleted(day) {
		t.Error("expected completion restored from storage")
	}
	if !sched.Has(h.ID) {
		t.Error("expected reminder registered on load")
	}
}

func TestConcurrentToggles(t *testing.T) {
	f := setupService(t)
	h, _ := f.svc.Create(models.NewHabit{Title: "Breathe"})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := f.svc.Toggle(h.ID, base.AddDate(0, 0, i)); err != nil {
				t.Errorf("Toggle failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := f.svc.Get(h.ID)
	if len(got.CompletedDates) != 10 {
		t.Errorf("expected 10 completions, got %d", len(got.CompletedDates))
	}
	stored, _ := f.store.GetCompletions(h.ID)
	if len(stored) != 10 {
		t.Errorf("expected 10 stored completions, got %d", len(stored))
	}
}

func TestReloadCancelsRemindersOfRemovedHabits(t *testing.T) {
	f := setupService(t)
	h, err := f.svc.Create(models.NewHabit{Title: "Stretch", IsReminderOn: true, ReminderTime: "07:00"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Another process deletes the habit
	if err := f.store.Provider.DeleteHabit(h.ID); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}

	if err := f.svc.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.sched.Has(h.ID) {
		t.Error("expected reminder of removed habit to be cancelled")
	}
	if _, err := f.svc.Get(h.ID); !errors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}
