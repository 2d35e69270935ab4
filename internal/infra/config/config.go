package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL           string
	EmailJSServiceID      string
	EmailJSTemplateID     string
	EmailJSPublicKey      string
	AppURL                string // origin link embedded in reminder emails
	LogLevel              string
	Environment           string
	CronSpecReminderCheck string // per-minute reminder due-check tick
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.EmailJSServiceID = os.Getenv("EMAILJS_SERVICE_ID")
	if cfg.EmailJSServiceID == "" {
		return nil, fmt.Errorf("EMAILJS_SERVICE_ID is not set")
	}

	cfg.EmailJSTemplateID = os.Getenv("EMAILJS_TEMPLATE_ID")
	if cfg.EmailJSTemplateID == "" {
		return nil, fmt.Errorf("EMAILJS_TEMPLATE_ID is not set")
	}

	cfg.EmailJSPublicKey = os.Getenv("EMAILJS_PUBLIC_KEY")
	if cfg.EmailJSPublicKey == "" {
		return nil, fmt.Errorf("EMAILJS_PUBLIC_KEY is not set")
	}

	cfg.AppURL = os.Getenv("APP_URL")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecReminderCheck = os.Getenv("CRON_SPEC_REMINDER_CHECK")
	if cfg.CronSpecReminderCheck == "" {
		cfg.CronSpecReminderCheck = "* * * * *" // Default: every minute
	}

	return cfg, nil
}
