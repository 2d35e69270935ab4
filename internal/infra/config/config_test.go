package config

import "testing"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/habits")
	t.Setenv("EMAILJS_SERVICE_ID", "service-1")
	t.Setenv("EMAILJS_TEMPLATE_ID", "template-1")
	t.Setenv("EMAILJS_PUBLIC_KEY", "public-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CRON_SPEC_REMINDER_CHECK", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %s, want development", cfg.Environment)
	}
	if cfg.CronSpecReminderCheck != "* * * * *" {
		t.Errorf("CronSpecReminderCheck = %s, want every minute", cfg.CronSpecReminderCheck)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	cases := []string{"DATABASE_URL", "EMAILJS_SERVICE_ID", "EMAILJS_TEMPLATE_ID", "EMAILJS_PUBLIC_KEY"}
	for _, missing := range cases {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")
			if _, err := Load(); err == nil {
				t.Errorf("expected an error when %s is unset", missing)
			}
		})
	}
}
