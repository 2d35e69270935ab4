package database

import (
	"context"
	"database/sql"
	"fmt"

	"habit_reminder_service/internal/domain/habit"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Custom errors
var ErrHabitNotFound = fmt.Errorf("habit not found")

// PostgresHabitRepository persists habits in the 'habits' table and their
// per-day completion marks in 'habit_completions(habit_id, day_key)'.
type PostgresHabitRepository struct {
	db *sql.DB
}

func NewPostgresHabitRepository(db *sql.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *habit.Habit) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	query := `INSERT INTO habits (id, user_id, name, description, created_at)
               VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, h.ID, h.UserID, h.Name, h.Description, h.CreatedAt); err != nil {
		return fmt.Errorf("error creating habit: %w", err)
	}
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, userID, habitID string) (*habit.Habit, error) {
	query := `SELECT id, user_id, name, description, created_at
               FROM habits WHERE id = $1 AND user_id = $2`
	h := &habit.Habit{}
	err := r.db.QueryRowContext(ctx, query, habitID, userID).Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("error getting habit by ID: %w", err)
	}
	if err := r.loadCompletions(ctx, map[string]*habit.Habit{h.ID: h}); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *PostgresHabitRepository) ListByUser(ctx context.Context, userID string) ([]*habit.Habit, error) {
	query := `SELECT id, user_id, name, description, created_at
               FROM habits WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing habits: %w", err)
	}
	defer rows.Close()

	habits := make([]*habit.Habit, 0)
	byID := make(map[string]*habit.Habit)
	for rows.Next() {
		h := &habit.Habit{}
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning habit: %w", err)
		}
		habits = append(habits, h)
		byID[h.ID] = h
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating habits: %w", err)
	}

	if err := r.loadCompletions(ctx, byID); err != nil {
		return nil, err
	}
	return habits, nil
}

// loadCompletions folds completion rows into the Completions maps of the
// given habits with a single query.
func (r *PostgresHabitRepository) loadCompletions(ctx context.Context, byID map[string]*habit.Habit) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `SELECT habit_id, day_key FROM habit_completions WHERE habit_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error loading habit completions: %w", err)
	}
	defer rows.Close()

	for _, h := range byID {
		h.Completions = make(map[habit.DayKey]bool)
	}
	for rows.Next() {
		var habitID, dayKey string
		if err := rows.Scan(&habitID, &dayKey); err != nil {
			return fmt.Errorf("error scanning habit completion: %w", err)
		}
		if h, ok := byID[habitID]; ok {
			h.Completions[habit.DayKey(dayKey)] = true
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating habit completions: %w", err)
	}
	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, userID, habitID string) error {
	// habit_completions rows go with it via ON DELETE CASCADE.
	query := `DELETE FROM habits WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, habitID, userID)
	if err != nil {
		return fmt.Errorf("error deleting habit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted habit rows: %w", err)
	}
	if affected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

func (r *PostgresHabitRepository) SetCompletion(ctx context.Context, userID, habitID string, day habit.DayKey, completed bool) error {
	// Ownership check first so one user cannot flip another's markers.
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM habits WHERE id = $1 AND user_id = $2`, habitID, userID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrHabitNotFound
		}
		return fmt.Errorf("error verifying habit ownership: %w", err)
	}

	if completed {
		query := `INSERT INTO habit_completions (habit_id, day_key)
                   VALUES ($1, $2) ON CONFLICT (habit_id, day_key) DO NOTHING`
		if _, err := r.db.ExecContext(ctx, query, habitID, string(day)); err != nil {
			return fmt.Errorf("error marking habit completion: %w", err)
		}
		return nil
	}
	query := `DELETE FROM habit_completions WHERE habit_id = $1 AND day_key = $2`
	if _, err := r.db.ExecContext(ctx, query, habitID, string(day)); err != nil {
		return fmt.Errorf("error clearing habit completion: %w", err)
	}
	return nil
}
