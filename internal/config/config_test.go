package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"PORT", "DB_DRIVER", "TIMEZONE", "FEED_SIZE", "JWT_EXPIRES_IN"} {
			t.Setenv(k, "")
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("Port = %q, want 8080", cfg.Port)
		}
		if cfg.DBDriver != "postgres" {
			t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
		}
		if cfg.Location != time.UTC {
			t.Errorf("Location = %v, want UTC", cfg.Location)
		}
		if cfg.FeedSize != 10 {
			t.Errorf("FeedSize = %d, want 10", cfg.FeedSize)
		}
		if cfg.JWTExpirationDur != 15*time.Minute {
			t.Errorf("JWTExpirationDur = %v, want 15m", cfg.JWTExpirationDur)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("TIMEZONE", "Asia/Kolkata")
		t.Setenv("FEED_SIZE", "25")
		t.Setenv("JWT_EXPIRES_IN", "1h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.DBDriver != "sqlite" {
			t.Errorf("DBDriver = %q, want sqlite", cfg.DBDriver)
		}
		if cfg.Location.String() != "Asia/Kolkata" {
			t.Errorf("Location = %v, want Asia/Kolkata", cfg.Location)
		}
		if cfg.FeedSize != 25 {
			t.Errorf("FeedSize = %d, want 25", cfg.FeedSize)
		}
		if cfg.JWTExpirationDur != time.Hour {
			t.Errorf("JWTExpirationDur = %v, want 1h", cfg.JWTExpirationDur)
		}
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		t.Setenv("FEED_SIZE", "-4")
		t.Setenv("JWT_EXPIRES_IN", "soon")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Location != time.UTC {
			t.Errorf("Location = %v, want UTC", cfg.Location)
		}
		if cfg.FeedSize != 10 {
			t.Errorf("FeedSize = %d, want 10", cfg.FeedSize)
		}
		if cfg.JWTExpirationDur != 15*time.Minute {
			t.Errorf("JWTExpirationDur = %v, want 15m", cfg.JWTExpirationDur)
		}
	})
}
