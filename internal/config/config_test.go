package config

import (
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing addr", mutate: func(c *Config) { c.Addr = " " }, wantErr: "missing addr"},
		{name: "missing base url", mutate: func(c *Config) { c.BaseURL = "" }, wantErr: "missing base_url"},
		{name: "bad default module", mutate: func(c *Config) { c.DefaultModule = "Home" }, wantErr: "not a valid module token"},
		{name: "missing templates dir", mutate: func(c *Config) { c.TemplatesDir = "" }, wantErr: "missing templates_dir"},
		{name: "missing locales dir", mutate: func(c *Config) { c.LocalesDir = "" }, wantErr: "missing locales_dir"},
		{name: "unknown state backend", mutate: func(c *Config) { c.State.Backend = "redis" }, wantErr: "unknown state backend"},
		{name: "sqlite without dsn", mutate: func(c *Config) { c.State = StateConfig{Backend: BackendSQLite} }, wantErr: "requires dsn"},
		{name: "session missing token", mutate: func(c *Config) {
			c.Sessions = []Session{{ID: "u1"}}
		}, wantErr: "token is required"},
		{name: "session missing id", mutate: func(c *Config) {
			c.Sessions = []Session{{Token: "t"}}
		}, wantErr: "id is required"},
		{name: "session bad landing", mutate: func(c *Config) {
			c.Sessions = []Session{{Token: "t", ID: "u1", LandingModule: "Bad"}}
		}, wantErr: "landing_module"},
		{name: "duplicate session token", mutate: func(c *Config) {
			c.Sessions = []Session{{Token: "t", ID: "u1"}, {Token: "t", ID: "u2"}}
		}, wantErr: "reuses token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected validation error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateAcceptsSQLiteWithDSN(t *testing.T) {
	cfg := Default()
	cfg.State = StateConfig{Backend: BackendSQLite, DSN: "weft.db"}
	cfg.Sessions = []Session{{Token: "tok", ID: "u1", Name: "Ada", LandingModule: "home", LandingAction: "default"}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
