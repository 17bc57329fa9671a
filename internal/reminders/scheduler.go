package reminders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/aura/internal/constants"
	"github.com/julianstephens/aura/internal/logger"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/utils"
)

// Scheduler keeps at most one daily reminder per habit.
type Scheduler interface {
	// Schedule replaces the habit's reminder, or cancels it when the
	// habit's reminder is off.
	Schedule(models.Habit) error
	// Cancel removes the habit's reminder. Unknown IDs are ignored.
	Cancel(habitID string) error
}

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(title, body string) error
}

// FiredLog persists when each habit's reminder last fired, so a reminder
// fires at most once per day across processes.
type FiredLog interface {
	GetReminderLog() (map[string]time.Time, error)
	MarkReminderFired(habitID string, at time.Time) error
}

// Daily fires each registered reminder once a day at its wall-clock time.
type Daily struct {
	mu        sync.Mutex
	reminders map[string]*models.Reminder
	notifier  Notifier
	log       FiredLog
	tick      time.Duration
	now       func() time.Time
}

type Option func(*Daily)

func WithFiredLog(log FiredLog) Option {
	return func(d *Daily) { d.log = log }
}

func WithTick(tick time.Duration) Option {
	return func(d *Daily) {
		if tick > 0 {
			d.tick = tick
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Daily) { d.now = now }
}

func NewDaily(notifier Notifier, opts ...Option) *Daily {
	d := &Daily{
		reminders: make(map[string]*models.Reminder),
		notifier:  notifier,
		tick:      constants.DefaultReminderTick,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Daily) Schedule(habit models.Habit) error {
	if !habit.IsReminderOn {
		return d.Cancel(habit.ID)
	}

	hour, minute, err := utils.ParseClock(habit.ReminderTime)
	if err != nil {
		return fmt.Errorf("invalid reminder time for habit %s: %w", habit.ID, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	r := &models.Reminder{
		HabitID: habit.ID,
		Title:   habit.Title,
		Hour:    hour,
		Minute:  minute,
	}
	// Rescheduling at the same time must not re-fire today
	if prev, ok := d.reminders[habit.ID]; ok && prev.Hour == hour && prev.Minute == minute {
		r.LastFired = prev.LastFired
	}
	d.reminders[habit.ID] = r
	return nil
}

func (d *Daily) Cancel(habitID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.reminders, habitID)
	return nil
}

// Restore loads last-fired times from the fired log for registered reminders.
func (d *Daily) Restore() error {
	if d.log == nil {
		return nil
	}

	fired, err := d.log.GetReminderLog()
	if err != nil {
		return fmt.Errorf("failed to load reminder log: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for id, at := range fired {
		r, ok := d.reminders[id]
		if !ok {
			continue
		}
		// Keep our own mark if the log write for it failed
		if r.LastFired == nil || at.After(*r.LastFired) {
			at := at
			r.LastFired = &at
		}
	}
	return nil
}

// Reminders returns the registry ordered by time of day, then title.
func (d *Daily) Reminders() []models.Reminder {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]models.Reminder, 0, len(d.reminders))
	for _, r := range d.reminders {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		if out[i].Minute != out[j].Minute {
			return out[i].Minute < out[j].Minute
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// Due returns reminders set for now's hour and minute that have not fired
// on now's calendar day.
func (d *Daily) Due(now time.Time) []models.Reminder {
	var due []models.Reminder
	for _, r := range d.Reminders() {
		if r.Hour != now.Hour() || r.Minute != now.Minute() {
			continue
		}
		if r.LastFired != nil && utils.SameDay(*r.LastFired, now) {
			continue
		}
		due = append(due, r)
	}
	return due
}

// Fire delivers every reminder due at now and returns how many were sent.
// Delivery failures are collected; the remaining reminders are still tried.
func (d *Daily) Fire(now time.Time) (int, error) {
	// Another process may have fired since we last read the log
	if err := d.Restore(); err != nil {
		logger.Warn("Failed to refresh reminder log", "error", err)
	}

	var errs []error
	sent := 0

	for _, r := range d.Due(now) {
		if err := d.notifier.Notify(constants.ReminderTitle, Body(r.Title)); err != nil {
			logger.Warn("Failed to deliver reminder", "habit_id", r.HabitID, "error", err)
			errs = append(errs, fmt.Errorf("reminder for %q: %w", r.Title, err))
			continue
		}
		sent++

		d.mu.Lock()
		if cur, ok := d.reminders[r.HabitID]; ok {
			at := now
			cur.LastFired = &at
		}
		d.mu.Unlock()

		if d.log != nil {
			if err := d.log.MarkReminderFired(r.HabitID, now); err != nil {
				logger.Warn("Failed to record reminder", "habit_id", r.HabitID, "error", err)
			}
		}
		logger.Debug("Reminder fired", "habit_id", r.HabitID, "title", r.Title)
	}

	return sent, errors.Join(errs...)
}

// Run fires due reminders on every tick until ctx is done.
func (d *Daily) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// Errors are already logged per reminder
			_, _ = d.Fire(d.now())
		}
	}
}

// Body is the notification text for a habit reminder.
func Body(title string) string {
	return fmt.Sprintf(constants.ReminderBodyFormat, title)
}
