package main

import (
	"os"
	"path/filepath"
	"testing"

	"weft/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weftd.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServerConfigOverridesOnlyDefinedKeys(t *testing.T) {
	path := writeConfig(t, `
addr = ":9090"
dev_mode = true

[state]
backend = "sqlite"
dsn = "weft.db"
`)
	cfg, err := loadServerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr = %q", cfg.Addr)
	}
	if !cfg.DevMode {
		t.Fatalf("dev_mode not applied")
	}
	if cfg.State.Backend != config.BackendSQLite || cfg.State.DSN != "weft.db" {
		t.Fatalf("state = %+v", cfg.State)
	}
	// Undefined keys keep their defaults.
	def := config.Default()
	if cfg.BaseURL != def.BaseURL || cfg.DefaultModule != def.DefaultModule {
		t.Fatalf("defaults clobbered: %+v", cfg)
	}
}

func TestLoadServerConfigSessions(t *testing.T) {
	path := writeConfig(t, `
[[sessions]]
token = " tok-ada "
id = "u1"
name = "Ada"
landing_module = "home"
landing_action = "default"
`)
	cfg, err := loadServerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Sessions) != 1 {
		t.Fatalf("sessions = %+v", cfg.Sessions)
	}
	s := cfg.Sessions[0]
	if s.Token != "tok-ada" || s.ID != "u1" || s.LandingModule != "home" {
		t.Fatalf("session = %+v", s)
	}
}

func TestLoadServerConfigTrimsTrailingBaseURLSlash(t *testing.T) {
	path := writeConfig(t, `base_url = "http://weft.local/"`)
	cfg, err := loadServerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://weft.local" {
		t.Fatalf("base_url = %q", cfg.BaseURL)
	}
}

func TestLoadServerConfigRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
[state]
backend = "redis"
`)
	if _, err := loadServerConfig(path); err == nil {
		t.Fatalf("expected validation failure")
	}
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	if _, err := loadServerConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected load failure for missing file")
	}
}
