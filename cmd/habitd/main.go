package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"habit_reminder_service/internal/app"
	"habit_reminder_service/internal/infra/config"
	idb "habit_reminder_service/internal/infra/database"
	"habit_reminder_service/internal/infra/email"
	"habit_reminder_service/internal/infra/logger"
	"habit_reminder_service/internal/infra/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Repositories
	habitRepo := idb.NewPostgresHabitRepository(db)
	settingsRepo := idb.NewPostgresSettingsRepository(db)

	// Initialize the email delivery adapter
	sender := email.NewEmailJSClient(cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey)

	// Initialize services
	reminderService := app.NewReminderService(habitRepo, settingsRepo, sender, log, cfg.AppURL)

	// One reminder loop per user session; the manager guarantees a re-armed
	// session first cancels its predecessor.
	sessions := app.NewSessionManager(func(userID string) app.ReminderLoop {
		return scheduler.NewReminderScheduler(reminderService, log, userID, cfg.CronSpecReminderCheck)
	}, log)

	// In this daemon deployment there is no interactive sign-in: every user
	// with enabled reminder settings gets an armed session at boot. An
	// embedding application would instead call sessions.Attach with its
	// auth provider.
	enabled, err := settingsRepo.ListEnabled(context.Background())
	if err != nil {
		log.Fatalf("FATAL: Could not list enabled notification settings: %v", err)
	}
	for _, s := range enabled {
		if _, err := sessions.Begin(s.UserID); err != nil {
			log.WithError(err).WithField("user_id", s.UserID).Error("Failed to arm reminder session")
		}
	}
	log.Infof("Armed reminder sessions for %d users", len(enabled))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	sessions.CloseAll()
	log.Info("Shut down gracefully")
}
