// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig holds the top-level service configuration read from environment
// variables. DATABASE_URL is the only hard requirement; everything else has a
// default or disables the feature that needs it.
type AppConfig struct {
	Port        int
	DatabaseURL string

	// AI resume enhancement (disabled when empty)
	GeminiAPIKey string

	// Billing (disabled when empty)
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceID       string

	// Reminder scheduler cadences
	ReminderPollInterval time.Duration
	DailySweepInterval   time.Duration

	SMTP SMTPConfig
}

// SMTPConfig holds the outbound mail transport configuration.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether the mail transport is configured at all.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Load builds an AppConfig from environment variables.
func Load() (*AppConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	port, err := envInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	smtpPort, err := envInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	pollInterval, err := envDuration("REMINDER_POLL_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := envDuration("REMINDER_SWEEP_INTERVAL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{
		Port:                 port,
		DatabaseURL:          databaseURL,
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripePriceID:        os.Getenv("STRIPE_PRICE_ID"),
		ReminderPollInterval: pollInterval,
		DailySweepInterval:   sweepInterval,
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *AppConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.ReminderPollInterval < time.Second {
		return fmt.Errorf("REMINDER_POLL_INTERVAL too small: %s", c.ReminderPollInterval)
	}
	if c.DailySweepInterval < time.Minute {
		return fmt.Errorf("REMINDER_SWEEP_INTERVAL too small: %s", c.DailySweepInterval)
	}
	if c.SMTP.Enabled() && c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	return nil
}

// envInt reads an integer environment variable with a default.
func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return v, nil
}

// envDuration reads a duration environment variable (Go syntax, e.g. "5m").
func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return v, nil
}
