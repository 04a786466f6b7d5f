package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsToMemory(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9090\"\nexam:\n  questionSeconds: 30\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Server.Port != "9090" || cfg.Exam.QuestionSeconds != 30 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadRejectsBadStorage(t *testing.T) {
	if _, err := Load(writeConfig(t, "storage:\n  driver: mongo\n")); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}
	if _, err := Load(writeConfig(t, "storage:\n  driver: postgres\n")); err == nil {
		t.Fatalf("expected postgres without url to fail")
	}
}

func TestLoadRejectsStoppedCountdown(t *testing.T) {
	for _, raw := range []string{"0s", "-1s", "soon"} {
		if _, err := Load(writeConfig(t, "exam:\n  tickInterval: "+raw+"\n")); err == nil {
			t.Fatalf("expected tickInterval %q to fail", raw)
		}
	}
	if _, err := Load(writeConfig(t, "exam:\n  questionSeconds: -5\n")); err == nil {
		t.Fatalf("expected negative questionSeconds to fail")
	}
	cfg, err := Load(writeConfig(t, "exam:\n  tickInterval: 500ms\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := TTLDuration(cfg.Exam.TickInterval, time.Second); got != 500*time.Millisecond {
		t.Fatalf("unexpected tick interval %v", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://env")
	t.Setenv("AUTH_SECRET", "from-env")
	cfg, err := Load(writeConfig(t, "storage:\n  driver: postgres\nauth:\n  secret: from-file\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Postgres.URL != "postgres://env" || cfg.Auth.Secret != "from-env" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback on parse error, got %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
}
