package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "PORT", "GEMINI_API_KEY",
		"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "STRIPE_PRICE_ID",
		"REMINDER_POLL_INTERVAL", "REMINDER_SWEEP_INTERVAL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error when DATABASE_URL is not set")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/jobtrackr")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.ReminderPollInterval != 5*time.Minute {
		t.Errorf("Expected default poll interval 5m, got %s", cfg.ReminderPollInterval)
	}
	if cfg.DailySweepInterval != 24*time.Hour {
		t.Errorf("Expected default sweep interval 24h, got %s", cfg.DailySweepInterval)
	}
	if cfg.SMTP.Enabled() {
		t.Error("SMTP should be disabled without SMTP_HOST")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/jobtrackr")
	t.Setenv("PORT", "9090")
	t.Setenv("REMINDER_POLL_INTERVAL", "30s")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "reminders@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.ReminderPollInterval != 30*time.Second {
		t.Errorf("Expected poll interval 30s, got %s", cfg.ReminderPollInterval)
	}
	if !cfg.SMTP.Enabled() {
		t.Error("SMTP should be enabled with SMTP_HOST set")
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("Expected default SMTP port 587, got %d", cfg.SMTP.Port)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "eighty"},
		{"port out of range", "PORT", "70000"},
		{"bad poll interval", "REMINDER_POLL_INTERVAL", "five minutes"},
		{"poll interval too small", "REMINDER_POLL_INTERVAL", "100ms"},
		{"sweep interval too small", "REMINDER_SWEEP_INTERVAL", "10s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DATABASE_URL", "postgres://localhost/jobtrackr")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadRequiresFromWithSMTPHost(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/jobtrackr")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when SMTP_HOST is set without SMTP_FROM")
	}
}
