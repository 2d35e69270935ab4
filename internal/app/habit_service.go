package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"habit_reminder_service/internal/domain/habit"
	"habit_reminder_service/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for user-triggered operations.
var ErrNotAuthenticated = fmt.Errorf("no authenticated user for this operation")
var ErrEmptyHabitName = fmt.Errorf("habit name must not be empty")
var ErrMissingEmail = fmt.Errorf("notification email must not be empty")
var ErrInvalidReminderTime = fmt.Errorf("reminder time must be HH:MM in 24-hour format")
var ErrInvalidTimezone = fmt.Errorf("unknown timezone identifier")

// HabitService handles the user-triggered operations: habit CRUD, completion
// toggles, settings saves and statistics. Unlike the background reminder
// flow, failures here are surfaced to the caller for display.
type HabitService struct {
	habitRepo    habit.Repository
	settingsRepo notification.Repository
	logger       *logrus.Logger
}

func NewHabitService(hr habit.Repository, nr notification.Repository, logger *logrus.Logger) *HabitService {
	return &HabitService{
		habitRepo:    hr,
		settingsRepo: nr,
		logger:       logger,
	}
}

// AddHabit validates and persists a new habit. Validation happens before any
// write reaches the repository.
func (s *HabitService) AddHabit(ctx context.Context, userID, name, description string) (*habit.Habit, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyHabitName
	}

	h := &habit.Habit{
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
		Completions: map[habit.DayKey]bool{},
	}
	if err := s.habitRepo.Create(ctx, h); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to create habit")
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "habit_id": h.ID}).Info("Habit created")
	return h, nil
}

// ToggleCompletion flips today's completion marker for one habit and returns
// the new state. "Today" is the calendar day of now in the user's stored
// timezone.
func (s *HabitService) ToggleCompletion(ctx context.Context, userID, habitID string, now time.Time) (bool, error) {
	if userID == "" {
		return false, ErrNotAuthenticated
	}

	h, err := s.habitRepo.GetByID(ctx, userID, habitID)
	if err != nil {
		return false, fmt.Errorf("failed to load habit %s: %w", habitID, err)
	}

	today := habit.DayKeyAt(now, s.userLocation(ctx, userID))
	completed := !h.CompletedOn(today)
	if err := s.habitRepo.SetCompletion(ctx, userID, habitID, today, completed); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "habit_id": habitID}).Error("Failed to toggle completion")
		return false, fmt.Errorf("failed to toggle completion for habit %s: %w", habitID, err)
	}
	return completed, nil
}

// DeleteHabit removes a habit and all of its completion history.
func (s *HabitService) DeleteHabit(ctx context.Context, userID, habitID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if err := s.habitRepo.Delete(ctx, userID, habitID); err != nil {
		return fmt.Errorf("failed to delete habit %s: %w", habitID, err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "habit_id": habitID}).Info("Habit deleted")
	return nil
}

// Statistics loads the user's current habit set and derives the dashboard
// figures in the user's stored timezone (process-local zone when none is
// stored).
func (s *HabitService) Statistics(ctx context.Context, userID string, now time.Time) (habit.Statistics, error) {
	if userID == "" {
		return habit.Statistics{}, ErrNotAuthenticated
	}
	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return habit.Statistics{}, fmt.Errorf("failed to list habits: %w", err)
	}
	return habit.ComputeStatistics(habits, now, s.userLocation(ctx, userID)), nil
}

// SaveSettings validates and overwrites the user's reminder settings. The
// record is always written whole, enabled, with lastSent cleared.
func (s *HabitService) SaveSettings(ctx context.Context, userID, emailAddr, timeHHMM, timezone string) (*notification.Settings, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(emailAddr) == "" {
		return nil, ErrMissingEmail
	}
	if _, _, err := parseClock(timeHHMM); err != nil {
		return nil, ErrInvalidReminderTime
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return nil, ErrInvalidTimezone
		}
	}

	settings := &notification.Settings{
		UserID:    userID,
		Email:     strings.TrimSpace(emailAddr),
		Time:      timeHHMM,
		Timezone:  timezone,
		Enabled:   true,
		UpdatedAt: time.Now(),
		LastSent:  sql.NullTime{},
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to save notification settings")
		return nil, fmt.Errorf("failed to save notification settings: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": userID, "time": timeHHMM, "timezone": timezone}).Info("Notification settings saved")
	return settings, nil
}

// userLocation resolves the timezone statistics and completion toggles are
// bucketed in: the user's stored zone when present and loadable, the
// process-local zone otherwise.
func (s *HabitService) userLocation(ctx context.Context, userID string) *time.Location {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil || settings.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
