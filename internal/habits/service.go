package habits

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/aura/internal/errors"
	"github.com/julianstephens/aura/internal/events"
	"github.com/julianstephens/aura/internal/logger"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/reminders"
	"github.com/julianstephens/aura/internal/storage"
	"github.com/julianstephens/aura/internal/utils"
	"github.com/julianstephens/aura/internal/validation"
)

// Service holds the loaded habits and keeps storage, reminders and the
// refresh signal in step with every mutation. Mutations of one habit are
// serialized; in-memory state only changes after storage accepted the write.
type Service struct {
	store storage.Provider
	sched reminders.Scheduler
	bus   *events.Bus
	now   func() time.Time
	newID func() string

	mu     sync.RWMutex
	habits map[string]models.Habit
	locks  map[string]*sync.Mutex
}

type Option func(*Service)

// WithClock overrides time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs overrides UUID generation.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func New(store storage.Provider, sched reminders.Scheduler, bus *events.Bus, opts ...Option) *Service {
	s := &Service{
		store:  store,
		sched:  sched,
		bus:    bus,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		habits: make(map[string]models.Habit),
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory habits with the stored ones and registers
// their reminders.
func (s *Service) Load() error {
	all, err := s.store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	loaded := make(map[string]models.Habit, len(all))
	for _, h := range all {
		loaded[h.ID] = h
	}

	var gone []string
	s.mu.Lock()
	for id := range s.habits {
		if _, ok := loaded[id]; !ok {
			gone = append(gone, id)
		}
	}
	s.habits = loaded
	for id := range s.locks {
		if _, ok := loaded[id]; !ok {
			delete(s.locks, id)
		}
	}
	s.mu.Unlock()

	// Habits deleted by another process
	if s.sched != nil {
		for _, id := range gone {
			if err := s.sched.Cancel(id); err != nil {
				logger.Warn("Failed to cancel reminder", "habit_id", id, "error", err)
			}
		}
	}
	for _, h := range all {
		s.schedule(h)
	}
	logger.Debug("Habits loaded", "count", len(all))
	return nil
}

func (s *Service) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// lookup returns a private copy of the habit.
func (s *Service) lookup(id string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, apperrors.ErrHabitNotFound)
	}
	return h.Clone(), nil
}

func (s *Service) commit(h models.Habit) {
	s.mu.Lock()
	s.habits[h.ID] = h
	s.mu.Unlock()
}

func (s *Service) schedule(h models.Habit) {
	if s.sched == nil {
		return
	}
	if err := s.sched.Schedule(h); err != nil {
		logger.Warn("Failed to schedule reminder", "habit_id", h.ID, "error", err)
	}
}

func (s *Service) Get(id string) (models.Habit, error) {
	return s.lookup(id)
}

// List returns all habits ordered by creation time.
func (s *Service) List() []models.Habit {
	s.mu.RLock()
	out := make([]models.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		out = append(out, h.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindByTitle returns the oldest habit whose title matches, ignoring case
// and surrounding space.
func (s *Service) FindByTitle(title string) (models.Habit, error) {
	want := strings.TrimSpace(title)
	for _, h := range s.List() {
		if strings.EqualFold(strings.TrimSpace(h.Title), want) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q: %w", title, apperrors.ErrHabitNotFound)
}

// Resolve finds a habit by exact ID, falling back to title.
func (s *Service) Resolve(ref string) (models.Habit, error) {
	if h, err := s.lookup(ref); err == nil {
		return h, nil
	}
	return s.FindByTitle(ref)
}

func (s *Service) Create(n models.NewHabit) (models.Habit, error) {
	n.Title = strings.TrimSpace(n.Title)
	if err := validation.ValidateTitle(n.Title); err != nil {
		return models.Habit{}, err
	}
	if n.IsReminderOn {
		if err := validation.ValidateReminderTime(n.ReminderTime); err != nil {
			return models.Habit{}, err
		}
	}
	if n.HexColor != "" {
		if err := validation.ValidateHexColor(n.HexColor); err != nil {
			return models.Habit{}, err
		}
		n.HexColor = validation.NormalizeHexColor(n.HexColor)
	}

	h := n.ToHabit(s.newID(), s.now())
	if err := s.store.AddHabit(h); err != nil {
		logger.Error("Failed to persist habit", "habit_id", h.ID, "error", err)
		return models.Habit{}, fmt.Errorf("failed to save habit: %w", err)
	}

	s.commit(h)
	s.schedule(h)
	s.bus.Publish()
	logger.Info("Habit created", "habit_id", h.ID, "title", h.Title)
	return h.Clone(), nil
}

// Toggle flips completion for day's calendar day. The change is applied to
// a copy, persisted, and only then made visible.
func (s *Service) Toggle(id string, day time.Time) (models.Habit, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	h, err := s.lookup(id)
	if err != nil {
		return models.Habit{}, err
	}

	wasDone := h.IsCompleted(day)
	h.ToggleCompletion(day)

	if wasDone {
		err = s.store.RemoveCompletion(id, day)
	} else {
		err = s.store.AddCompletion(id, day)
	}
	if err != nil {
		logger.Error("Failed to persist completion", "habit_id", id, "day", utils.DayKey(day, day.Location()), "error", err)
		return models.Habit{}, fmt.Errorf("failed to save completion: %w", err)
	}

	s.commit(h)
	s.bus.Publish()
	return h.Clone(), nil
}

// SetReminder turns the habit's reminder on at clock (HH:MM) or off. An
// empty clock keeps the current time.
func (s *Service) SetReminder(id string, on bool, clock string) (models.Habit, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	h, err := s.lookup(id)
	if err != nil {
		return models.Habit{}, err
	}

	if clock != "" {
		if err := validation.ValidateReminderTime(clock); err != nil {
			return models.Habit{}, err
		}
		h.ReminderTime = clock
	}
	h.IsReminderOn = on

	if err := s.store.UpdateHabit(h); err != nil {
		logger.Error("Failed to persist reminder", "habit_id", id, "error", err)
		return models.Habit{}, fmt.Errorf("failed to save reminder: %w", err)
	}

	s.commit(h)
	s.schedule(h)
	s.bus.Publish()
	return h.Clone(), nil
}

// Update edits the title and appearance.
func (s *Service) Update(id string, patch models.HabitPatch) (models.Habit, error) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	h, err := s.lookup(id)
	if err != nil {
		return models.Habit{}, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := validation.ValidateTitle(title); err != nil {
			return models.Habit{}, err
		}
		patch.Title = &title
	}
	if patch.HexColor != nil {
		if err := validation.ValidateHexColor(*patch.HexColor); err != nil {
			return models.Habit{}, err
		}
		color := validation.NormalizeHexColor(*patch.HexColor)
		patch.HexColor = &color
	}
	patch.Apply(&h)

	if err := s.store.UpdateHabit(h); err != nil {
		logger.Error("Failed to persist habit", "habit_id", id, "error", err)
		return models.Habit{}, fmt.Errorf("failed to save habit: %w", err)
	}

	s.commit(h)
	// The reminder text carries the title
	if h.IsReminderOn {
		s.schedule(h)
	}
	s.bus.Publish()
	return h.Clone(), nil
}

// Delete removes the habit, its completions and its reminder.
func (s *Service) Delete(id string) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	if _, err := s.lookup(id); err != nil {
		return err
	}

	if err := s.store.DeleteHabit(id); err != nil {
		logger.Error("Failed to delete habit", "habit_id", id, "error", err)
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	if s.sched != nil {
		if err := s.sched.Cancel(id); err != nil {
			logger.Warn("Failed to cancel reminder", "habit_id", id, "error", err)
		}
	}

	s.mu.Lock()
	delete(s.habits, id)
	delete(s.locks, id)
	s.mu.Unlock()

	s.bus.Publish()
	logger.Info("Habit deleted", "habit_id", id)
	return nil
}
