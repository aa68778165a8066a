package config

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		wantCost int
		wantErr  bool
	}{
		{name: "default cost", cost: "", wantCost: 12},
		{name: "valid cost", cost: "10", wantCost: 10},
		{name: "cost too low", cost: "9", wantErr: true},
		{name: "cost too high", cost: "15", wantErr: true},
		{name: "non-numeric cost", cost: "strong", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", "")

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPasswordConfig failed: %v", err)
			}
			if cfg.BcryptCost != tt.wantCost {
				t.Errorf("Expected cost %d, got %d", tt.wantCost, cfg.BcryptCost)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: bcrypt.MinCost}

	hash, err := cfg.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash must not equal the plaintext")
	}

	if !cfg.VerifyPassword("correct horse battery staple", hash) {
		t.Error("Expected correct password to verify")
	}
	if cfg.VerifyPassword("wrong password", hash) {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestPepperChangesVerification(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: bcrypt.MinCost, Pepper: "pepper-a"}
	plain := &PasswordConfig{BcryptCost: bcrypt.MinCost}

	hash, err := peppered.HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !peppered.VerifyPassword("pw", hash) {
		t.Error("Expected verification with matching pepper")
	}
	if plain.VerifyPassword("pw", hash) {
		t.Error("Verification without the pepper should fail")
	}
}
