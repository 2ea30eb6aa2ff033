package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"weft/internal/config"
)

type fileConfig struct {
	Addr          string            `toml:"addr"`
	BaseURL       string            `toml:"base_url"`
	DevMode       bool              `toml:"dev_mode"`
	DefaultModule string            `toml:"default_module"`
	TemplatesDir  string            `toml:"templates_dir"`
	LocalesDir    string            `toml:"locales_dir"`
	State         fileStateConfig   `toml:"state"`
	Sessions      []fileSessionUser `toml:"sessions"`
}

type fileStateConfig struct {
	Backend string `toml:"backend"`
	DSN     string `toml:"dsn"`
}

type fileSessionUser struct {
	Token         string `toml:"token"`
	ID            string `toml:"id"`
	Name          string `toml:"name"`
	LandingModule string `toml:"landing_module"`
	LandingAction string `toml:"landing_action"`
}

func loadServerConfig(path string) (config.Config, error) {
	cfg := config.Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.Config{}, fmt.Errorf("load weftd config: %w", err)
	}

	if meta.IsDefined("addr") {
		if addr := strings.TrimSpace(raw.Addr); addr != "" {
			cfg.Addr = addr
		}
	}
	if meta.IsDefined("base_url") {
		cfg.BaseURL = strings.TrimRight(strings.TrimSpace(raw.BaseURL), "/")
	}
	if meta.IsDefined("dev_mode") {
		cfg.DevMode = raw.DevMode
	}
	if meta.IsDefined("default_module") {
		cfg.DefaultModule = strings.TrimSpace(raw.DefaultModule)
	}
	if meta.IsDefined("templates_dir") {
		cfg.TemplatesDir = strings.TrimSpace(raw.TemplatesDir)
	}
	if meta.IsDefined("locales_dir") {
		cfg.LocalesDir = strings.TrimSpace(raw.LocalesDir)
	}
	if meta.IsDefined("state", "backend") {
		cfg.State.Backend = strings.TrimSpace(raw.State.Backend)
	}
	if meta.IsDefined("state", "dsn") {
		cfg.State.DSN = strings.TrimSpace(raw.State.DSN)
	}
	if meta.IsDefined("sessions") {
		cfg.Sessions = make([]config.Session, 0, len(raw.Sessions))
		for _, s := range raw.Sessions {
			cfg.Sessions = append(cfg.Sessions, config.Session{
				Token:         strings.TrimSpace(s.Token),
				ID:            strings.TrimSpace(s.ID),
				Name:          strings.TrimSpace(s.Name),
				LandingModule: strings.TrimSpace(s.LandingModule),
				LandingAction: strings.TrimSpace(s.LandingAction),
			})
		}
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, fmt.Errorf("weftd config invalid: %w", err)
	}
	return cfg, nil
}
