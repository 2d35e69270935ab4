package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"habit_reminder_service/internal/app" // For ReminderService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler drives the per-minute reminder due-check for a single
// session. It implements app.ReminderLoop; the session manager owns its
// lifetime, so a closed session always stops its cron engine.
type ReminderScheduler struct {
	cronEngine *cron.Cron
	svc        app.ReminderService
	logger     *logrus.Logger
	userID     string
	cronSpec   string
	inFlight   atomic.Bool
}

func NewReminderScheduler(
	svc app.ReminderService,
	logger *logrus.Logger,
	userID string,
	cronSpec string, // e.g., "* * * * *" (every minute)
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // ticks in server-local time; the due-check converts to the user's zone itself
		svc:        svc,
		logger:     logger,
		userID:     userID,
		cronSpec:   cronSpec,
	}
}

// Start registers the tick job and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.tick); err != nil {
		return fmt.Errorf("could not add reminder tick job: %w", err)
	}
	s.cronEngine.Start()
	s.logger.WithField("user_id", s.userID).Debug("Reminder scheduler started")
	return nil
}

func (s *ReminderScheduler) tick() {
	// A tick must never overlap a still-running previous tick; an in-flight
	// send racing a second evaluation could double-send within one minute.
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.WithField("user_id", s.userID).Warn("Previous reminder tick still in flight, skipping")
		return
	}
	defer s.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()

	if err := s.svc.ProcessTick(ctx, s.userID); err != nil {
		// Background ticks log and wait for the next minute; no retry.
		s.logger.WithError(err).WithField("user_id", s.userID).Error("Reminder tick failed")
	}
}

// Stop halts the engine and waits for a running tick to finish.
func (s *ReminderScheduler) Stop() {
	ctx := s.cronEngine.Stop() // Stops scheduling new ticks, waits for running jobs.
	<-ctx.Done()
	s.logger.WithField("user_id", s.userID).Debug("Reminder scheduler stopped")
}
