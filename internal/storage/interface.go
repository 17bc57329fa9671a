package storage

import (
	"time"

	"github.com/julianstephens/aura/internal/models"
)

// Provider persists habits and their completion history. Implementations
// must make committed changes visible to other processes reading the same
// store.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeleteHabit(id string) error

	// Completions
	AddCompletion(habitID string, at time.Time) error
	// RemoveCompletion deletes one completion of the habit falling on the
	// same calendar day as day (in day's location). It is a no-op when
	// there is none.
	RemoveCompletion(habitID string, day time.Time) error
	GetCompletions(habitID string) ([]time.Time, error)

	// Reminders
	GetReminderLog() (map[string]time.Time, error)
	MarkReminderFired(habitID string, at time.Time) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by stores with a versioned schema.
type Migrator interface {
	// Migrate applies pending migrations, reporting progress to logFn.
	Migrate(logFn func(string)) (int, error)
	// SchemaVersion returns the applied and the latest known versions.
	SchemaVersion() (current, latest int, err error)
}
