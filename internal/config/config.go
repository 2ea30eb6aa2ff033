// Package config defines server configuration and its invariants.
package config

import (
	"fmt"
	"strings"

	"weft/internal/router"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config is the full weftd server configuration.
type Config struct {
	Addr          string      `toml:"addr"`
	BaseURL       string      `toml:"base_url"`
	DevMode       bool        `toml:"dev_mode"`
	DefaultModule string      `toml:"default_module"`
	TemplatesDir  string      `toml:"templates_dir"`
	LocalesDir    string      `toml:"locales_dir"`
	State         StateConfig `toml:"state"`
	Sessions      []Session   `toml:"sessions"`
}

// StateConfig selects the state bag backend.
type StateConfig struct {
	Backend string `toml:"backend"`
	DSN     string `toml:"dsn"`
}

// Session declares one static session token and the user it resolves to.
type Session struct {
	Token         string `toml:"token"`
	ID            string `toml:"id"`
	Name          string `toml:"name"`
	LandingModule string `toml:"landing_module"`
	LandingAction string `toml:"landing_action"`
}

func Default() Config {
	return Config{
		Addr:          ":8080",
		BaseURL:       "http://localhost:8080",
		DefaultModule: "home",
		TemplatesDir:  "templates",
		LocalesDir:    "locales",
		State:         StateConfig{Backend: BackendMemory},
	}
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("config missing addr")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("config missing base_url")
	}
	if !router.ValidToken(cfg.DefaultModule) {
		return fmt.Errorf("config default_module %q is not a valid module token", cfg.DefaultModule)
	}
	if strings.TrimSpace(cfg.TemplatesDir) == "" {
		return fmt.Errorf("config missing templates_dir")
	}
	if strings.TrimSpace(cfg.LocalesDir) == "" {
		return fmt.Errorf("config missing locales_dir")
	}
	switch cfg.State.Backend {
	case BackendMemory:
	case BackendSQLite:
		if strings.TrimSpace(cfg.State.DSN) == "" {
			return fmt.Errorf("state backend sqlite requires dsn")
		}
	default:
		return fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}
	seen := make(map[string]bool, len(cfg.Sessions))
	for i, s := range cfg.Sessions {
		if err := ValidateSession(s); err != nil {
			return fmt.Errorf("sessions[%d] invalid: %w", i, err)
		}
		if seen[s.Token] {
			return fmt.Errorf("sessions[%d] reuses token", i)
		}
		seen[s.Token] = true
	}
	return nil
}

func ValidateSession(s Session) error {
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("token is required")
	}
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if s.LandingModule != "" && !router.ValidToken(s.LandingModule) {
		return fmt.Errorf("landing_module %q is not a valid module token", s.LandingModule)
	}
	if s.LandingAction != "" && !router.ValidToken(s.LandingAction) {
		return fmt.Errorf("landing_action %q is not a valid action token", s.LandingAction)
	}
	return nil
}
