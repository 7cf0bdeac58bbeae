package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Addr != ":8080" || cfg.RoomCloseGrace != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	// A default file was materialized for the operator to edit.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("addr: \":9090\"\nlog_level: debug\nroom_close_grace: 45s\nverifier_url: http://verifier:5001\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RoomCloseGrace != 45*time.Second {
		t.Fatalf("room_close_grace = %v", cfg.RoomCloseGrace)
	}
	if cfg.VerifierURL != "http://verifier:5001" {
		t.Fatalf("verifier_url = %q", cfg.VerifierURL)
	}
	// Unset keys keep their defaults.
	if cfg.DatabasePath != "interview.db" {
		t.Fatalf("database_path = %q", cfg.DatabasePath)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("INTERVIEW_ADDR", ":7070")

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("addr = %q, want :7070", cfg.Addr)
	}
}

func TestUpdateFrom(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":6060", RoomCloseGrace: 10 * time.Second})
	if cfg.Addr != ":6060" || cfg.RoomCloseGrace != 10*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Zero values leave the receiver untouched.
	if cfg.LogLevel != "info" || cfg.DatabasePath != "interview.db" {
		t.Fatalf("defaults clobbered: %+v", cfg)
	}
}
