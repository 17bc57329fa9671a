package reminders

import (
	"sync"

	"github.com/julianstephens/aura/internal/models"
)

// Fake records scheduling calls without firing anything.
type Fake struct {
	mu        sync.Mutex
	Scheduled map[string]models.Habit
	Cancelled []string
	Err       error
}

func NewFake() *Fake {
	return &Fake{Scheduled: make(map[string]models.Habit)}
}

func (f *Fake) Schedule(habit models.Habit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if !habit.IsReminderOn {
		delete(f.Scheduled, habit.ID)
		f.Cancelled = append(f.Cancelled, habit.ID)
		return nil
	}
	f.Scheduled[habit.ID] = habit
	return nil
}

func (f *Fake) Cancel(habitID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	delete(f.Scheduled, habitID)
	f.Cancelled = append(f.Cancelled, habitID)
	return nil
}

// Has reports whether a reminder is registered for habitID.
func (f *Fake) Has(habitID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Scheduled[habitID]
	return ok
}
