package config

import (
	"testing"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration string
		wantHours  int
		wantErr    bool
	}{
		{
			name:      "defaults",
			secret:    "a-secret-of-reasonable-length",
			wantHours: 24,
		},
		{
			name:       "explicit expiration",
			secret:     "a-secret-of-reasonable-length",
			expiration: "72",
			wantHours:  72,
		},
		{
			name:    "missing secret",
			secret:  "",
			wantErr: true,
		},
		{
			name:       "non-numeric expiration",
			secret:     "a-secret-of-reasonable-length",
			expiration: "one day",
			wantErr:    true,
		},
		{
			name:       "zero expiration",
			secret:     "a-secret-of-reasonable-length",
			expiration: "0",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewJWTConfig failed: %v", err)
			}
			if cfg.Secret != tt.secret {
				t.Errorf("Expected secret %q, got %q", tt.secret, cfg.Secret)
			}
			if cfg.ExpirationHours != tt.wantHours {
				t.Errorf("Expected %d expiration hours, got %d", tt.wantHours, cfg.ExpirationHours)
			}
		})
	}
}
