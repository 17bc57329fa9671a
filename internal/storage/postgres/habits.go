package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/aura/internal/errors"
	"github.com/julianstephens/aura/internal/models"
	"github.com/julianstephens/aura/internal/storage"
	"github.com/julianstephens/aura/internal/utils"
)

const habitColumns = "id, title, icon_symbol, hex_color, created_at, is_reminder_on, reminder_time"

type completionRow struct {
	ID          string `db:"id"`
	HabitID     string `db:"habit_id"`
	CompletedAt string `db:"completed_at"`
}

func (s *Store) AddHabit(habit models.Habit) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	_, err = tx.NamedExec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (:id, :title, :icon_symbol, :hex_color, :created_at, :is_reminder_on, :reminder_time)`, habit)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	for _, at := range habit.CompletedDates {
		if _, err := tx.Exec(`INSERT INTO habit_completions (id, habit_id, completed_at) VALUES ($1, $2, $3)`,
			uuid.New().String(), habit.ID, storage.FormatCompletion(at)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert completion: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	var habit models.Habit
	err := s.db.Get(&habit, `SELECT `+habitColumns+` FROM habits WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, apperrors.ErrHabitNotFound)
	}
	if err != nil {
		return models.Habit{}, err
	}

	habit.CompletedDates, err = s.GetCompletions(id)
	if err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	var habits []models.Habit
	if err := s.db.Select(&habits, `SELECT `+habitColumns+` FROM habits ORDER BY created_at, id`); err != nil {
		return nil, err
	}

	var completions []completionRow
	if err := s.db.Select(&completions, `SELECT id, habit_id, completed_at FROM habit_completions ORDER BY habit_id, seq`); err != nil {
		return nil, err
	}

	byHabit := make(map[string][]time.Time)
	for _, c := range completions {
		at, err := storage.ParseCompletion(c.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completion %s: %w", c.ID, err)
		}
		byHabit[c.HabitID] = append(byHabit[c.HabitID], at)
	}

	for i := range habits {
		habits[i].CompletedDates = byHabit[habits[i].ID]
	}
	return habits, nil
}

// UpdateHabit writes the mutable fields. Completions are managed separately.
func (s *Store) UpdateHabit(habit models.Habit) error {
	result, err := s.db.NamedExec(`
		UPDATE habits SET title = :title, icon_symbol = :icon_symbol, hex_color = :hex_color,
			is_reminder_on = :is_reminder_on, reminder_time = :reminder_time
		WHERE id = :id`, habit)
	if err != nil {
		return err
	}
	return expectRow(result, habit.ID)
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(result, id)
}

func (s *Store) AddCompletion(habitID string, at time.Time) error {
	_, err := s.db.Exec(`INSERT INTO habit_completions (id, habit_id, completed_at) VALUES ($1, $2, $3)`,
		uuid.New().String(), habitID, storage.FormatCompletion(at))
	return err
}

func (s *Store) RemoveCompletion(habitID string, day time.Time) error {
	var rows []completionRow
	if err := s.db.Select(&rows, `SELECT id, habit_id, completed_at FROM habit_completions WHERE habit_id = $1 ORDER BY seq`, habitID); err != nil {
		return err
	}

	for _, row := range rows {
		at, err := storage.ParseCompletion(row.CompletedAt)
		if err != nil {
			return fmt.Errorf("failed to parse completion %s: %w", row.ID, err)
		}
		if utils.SameDay(at, day) {
			_, err := s.db.Exec(`DELETE FROM habit_completions WHERE id = $1`, row.ID)
			return err
		}
	}
	return nil
}

func (s *Store) GetCompletions(habitID string) ([]time.Time, error) {
	var raw []string
	if err := s.db.Select(&raw, `SELECT completed_at FROM habit_completions WHERE habit_id = $1 ORDER BY seq`, habitID); err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(raw))
	for _, r := range raw {
		at, err := storage.ParseCompletion(r)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completion for habit %s: %w", habitID, err)
		}
		dates = append(dates, at)
	}
	return dates, nil
}

func (s *Store) GetReminderLog() (map[string]time.Time, error) {
	var rows []struct {
		HabitID   string    `db:"habit_id"`
		LastFired time.Time `db:"last_fired"`
	}
	if err := s.db.Select(&rows, `SELECT habit_id, last_fired FROM reminder_log`); err != nil {
		return nil, err
	}

	fired := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		fired[row.HabitID] = row.LastFired
	}
	return fired, nil
}

func (s *Store) MarkReminderFired(habitID string, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO reminder_log (habit_id, last_fired) VALUES ($1, $2)
		ON CONFLICT (habit_id) DO UPDATE SET last_fired = EXCLUDED.last_fired`,
		habitID, at)
	return err
}

func expectRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %s: %w", id, apperrors.ErrHabitNotFound)
	}
	return nil
}
