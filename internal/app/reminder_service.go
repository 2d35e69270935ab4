// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"habit_reminder_service/internal/domain/email"
	"habit_reminder_service/internal/domain/habit"
	"habit_reminder_service/internal/domain/notification"
	idb "habit_reminder_service/internal/infra/database" // Alias for repository sentinel errors

	"github.com/sirupsen/logrus"
)

// ReminderService defines the per-tick reminder evaluation.
type ReminderService interface {
	// ProcessTick evaluates whether the user's daily reminder is due right
	// now and dispatches it if so. Errors are reported for logging only;
	// the tick loop never stops because one tick failed.
	ProcessTick(ctx context.Context, userID string) error
}

// ReminderServiceImpl implements the ReminderService interface.
type ReminderServiceImpl struct {
	habitRepo    habit.Repository
	settingsRepo notification.Repository
	sender       email.Sender
	logger       *logrus.Logger
	appURL       string
	now          func() time.Time // swapped for a fixed clock in tests
}

func NewReminderService(
	hr habit.Repository,
	nr notification.Repository,
	sender email.Sender,
	logger *logrus.Logger,
	appURL string,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		habitRepo:    hr,
		settingsRepo: nr,
		sender:       sender,
		logger:       logger,
		appURL:       appURL,
		now:          time.Now,
	}
}

// ProcessTick runs one due-check for one user:
//
//  1. settings are read fresh (never from a cached snapshot),
//  2. the reminder is due when the current wall-clock time in the user's
//     timezone is at or after the configured time — not on exact minute
//     equality, so a tick landing outside the target minute cannot skip a
//     whole day,
//  3. at most one send happens per local calendar day, enforced by comparing
//     lastSent's day key against today's,
//  4. lastSent is persisted only after the send succeeded.
func (s *ReminderServiceImpl) ProcessTick(ctx context.Context, userID string) error {
	if userID == "" {
		return nil // session is gone, nothing to evaluate
	}

	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		if err == idb.ErrSettingsNotFound {
			return nil
		}
		return fmt.Errorf("failed to load notification settings: %w", err)
	}
	if !settings.Enabled {
		return nil
	}
	if settings.Email == "" {
		s.logger.WithField("user_id", userID).Warn("Notification settings have no recipient email, skipping reminder")
		return nil
	}

	loc := s.location(settings.Timezone)
	nowLocal := s.now().In(loc)

	hour, minute, err := parseClock(settings.Time)
	if err != nil {
		return fmt.Errorf("invalid reminder time %q: %w", settings.Time, err)
	}
	if nowLocal.Hour()*60+nowLocal.Minute() < hour*60+minute {
		return nil // not yet due today
	}

	today := habit.DayKeyAt(nowLocal, loc)
	if settings.LastSent.Valid && habit.DayKeyAt(settings.LastSent.Time, loc) == today {
		return nil // already sent today
	}

	habits, err := s.habitRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list habits for reminder: %w", err)
	}

	reminder := BuildReminder(habits, today, settings, s.appURL)
	if reminder == nil {
		s.logger.WithField("user_id", userID).Debug("All habits completed today, no reminder needed")
		return nil
	}

	if err := s.sender.Send(ctx, reminder); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	if err := s.settingsRepo.UpdateLastSent(ctx, userID, s.now()); err != nil {
		// The email went out; without the marker the next tick would send
		// again, so this failure must be visible.
		return fmt.Errorf("reminder sent but failed to record lastSent: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"incomplete": reminder.Count,
	}).Info("Daily reminder sent")
	return nil
}

func (s *ReminderServiceImpl) location(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.logger.WithField("timezone", name).Warn("Unknown timezone in settings, falling back to process-local zone")
		return time.Local
	}
	return loc
}

// BuildReminder selects the habits lacking today's completion and shapes the
// payload for the sending collaborator. It returns nil when every habit is
// already completed, in which case no email is sent at all.
func BuildReminder(habits []*habit.Habit, today habit.DayKey, settings *notification.Settings, appURL string) *email.Reminder {
	var incomplete []email.IncompleteHabit
	for _, h := range habits {
		if h.CompletedOn(today) {
			continue
		}
		incomplete = append(incomplete, email.IncompleteHabit{
			Name:        h.Name,
			Description: h.Description,
		})
	}
	if len(incomplete) == 0 {
		return nil
	}

	toName := settings.Email
	if i := strings.Index(toName, "@"); i > 0 {
		toName = toName[:i]
	}
	return &email.Reminder{
		ToEmail: settings.Email,
		ToName:  toName,
		Count:   len(incomplete),
		Plural:  len(incomplete) > 1,
		Habits:  incomplete,
		AppURL:  appURL,
	}
}

// parseClock parses a "HH:MM" 24-hour wall-clock string.
func parseClock(v string) (hour, minute int, err error) {
	parts := strings.Split(v, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", v)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", v)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", v)
	}
	return hour, minute, nil
}
