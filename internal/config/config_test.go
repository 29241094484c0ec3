package config

import (
	"testing"
	"time"

	"healthmini/internal/errors"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/healthmini_test")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_API_URL", "")
	t.Setenv("GEMINI_TIMEOUT_MS", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Gemini.Timeout != 60*time.Second {
		t.Errorf("default gateway timeout = %v, want 60s", cfg.Gemini.Timeout)
	}
	if cfg.Retention.SweepInterval != 24*time.Hour {
		t.Errorf("sweep interval = %v, want 24h", cfg.Retention.SweepInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_TIMEOUT_MS", "1500")
	t.Setenv("PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Gemini.Timeout != 1500*time.Millisecond {
		t.Errorf("timeout = %v, want 1.5s", cfg.Gemini.Timeout)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("port = %s, want 9999", cfg.Server.Port)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	cases := []string{"DATABASE_URL", "GEMINI_API_KEY", "JWT_SECRET"}
	for _, missing := range cases {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")

			_, err := Load()
			if !errors.HasCode(err, errors.CodeConfigInvalid) {
				t.Fatalf("expected CONFIG_INVALID for missing %s, got %v", missing, err)
			}
		})
	}
}

func TestLoadBadTimeoutFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_TIMEOUT_MS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Gemini.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want 60s fallback", cfg.Gemini.Timeout)
	}
}
