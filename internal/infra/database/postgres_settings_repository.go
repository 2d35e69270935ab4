package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"habit_reminder_service/internal/domain/notification"
)

// Custom errors
var ErrSettingsNotFound = fmt.Errorf("notification settings not found")

// PostgresSettingsRepository persists per-user reminder settings in the
// 'notification_settings' table (one row per user).
type PostgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

func (r *PostgresSettingsRepository) Get(ctx context.Context, userID string) (*notification.Settings, error) {
	query := `SELECT user_id, email, reminder_time, timezone, enabled, updated_at, last_sent
               FROM notification_settings WHERE user_id = $1`
	s := &notification.Settings{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&s.UserID, &s.Email, &s.Time, &s.Timezone, &s.Enabled, &s.UpdatedAt, &s.LastSent)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("error getting notification settings: %w", err)
	}
	return s, nil
}

func (r *PostgresSettingsRepository) Save(ctx context.Context, s *notification.Settings) error {
	query := `INSERT INTO notification_settings (user_id, email, reminder_time, timezone, enabled, updated_at, last_sent)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               ON CONFLICT (user_id) DO UPDATE
               SET email = EXCLUDED.email,
                   reminder_time = EXCLUDED.reminder_time,
                   timezone = EXCLUDED.timezone,
                   enabled = EXCLUDED.enabled,
                   updated_at = EXCLUDED.updated_at,
                   last_sent = EXCLUDED.last_sent`
	_, err := r.db.ExecContext(ctx, query, s.UserID, s.Email, s.Time, s.Timezone, s.Enabled, s.UpdatedAt, s.LastSent)
	if err != nil {
		return fmt.Errorf("error saving notification settings: %w", err)
	}
	return nil
}

func (r *PostgresSettingsRepository) UpdateLastSent(ctx context.Context, userID string, sentAt time.Time) error {
	query := `UPDATE notification_settings SET last_sent = $1 WHERE user_id = $2`
	res, err := r.db.ExecContext(ctx, query, sentAt, userID)
	if err != nil {
		return fmt.Errorf("error updating lastSent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking lastSent update: %w", err)
	}
	if affected == 0 {
		return ErrSettingsNotFound
	}
	return nil
}

func (r *PostgresSettingsRepository) ListEnabled(ctx context.Context) ([]*notification.Settings, error) {
	query := `SELECT user_id, email, reminder_time, timezone, enabled, updated_at, last_sent
               FROM notification_settings WHERE enabled = TRUE ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing enabled notification settings: %w", err)
	}
	defer rows.Close()

	settings := make([]*notification.Settings, 0)
	for rows.Next() {
		s := &notification.Settings{}
		if err := rows.Scan(&s.UserID, &s.Email, &s.Time, &s.Timezone, &s.Enabled, &s.UpdatedAt, &s.LastSent); err != nil {
			return nil, fmt.Errorf("error scanning notification settings: %w", err)
		}
		settings = append(settings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification settings: %w", err)
	}
	return settings, nil
}
