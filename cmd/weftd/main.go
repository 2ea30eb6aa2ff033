package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weft/internal/config"
	"weft/internal/dispatch"
	"weft/internal/i18n"
	"weft/internal/modules/home"
	"weft/internal/modules/notes"
	"weft/internal/observability"
	"weft/internal/registry"
	"weft/internal/session"
	"weft/internal/state"
	"weft/internal/view"
)

func main() {
	cfgPath := flag.String("config", "", "path to weftd TOML config")
	addr := flag.String("addr", "", "listen address override")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := loadServerConfig(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "weftd: config load failed: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "weftd: config invalid: %v\n", err)
		os.Exit(1)
	}

	logger := observability.InitLogger("weftd", cfg.DevMode)

	states, closeStates, err := openStateStore(cfg.State)
	if err != nil {
		logger.Fatal().Err(err).Msg("state store unavailable")
	}
	defer closeStates()

	catalogs, err := i18n.Load(cfg.LocalesDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("locale catalogs unavailable")
	}

	users := session.NewStaticUsers()
	for _, s := range cfg.Sessions {
		users.Add(s.Token, session.User{
			ID:   s.ID,
			Name: s.Name,
			Landing: session.Landing{
				Module: s.LandingModule,
				Action: s.LandingAction,
			},
		})
	}

	reg := registry.New()
	for _, register := range []func(*registry.Registry) error{
		home.Register,
		notes.Register,
	} {
		if err := register(reg); err != nil {
			logger.Fatal().Err(err).Msg("module registration failed")
		}
	}

	views := view.NewRegistry(cfg.TemplatesDir, cfg.DevMode)

	engine, err := dispatch.New(dispatch.Options{
		Log:           logger,
		BaseURL:       cfg.BaseURL,
		DefaultModule: cfg.DefaultModule,
		Registry:      reg,
		Views:         views,
		Catalogs:      catalogs,
		States:        states,
		Sessions:      users,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("engine boot failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DevMode {
		if err := views.Watch(ctx, logger); err != nil {
			logger.Fatal().Err(err).Msg("template watcher failed")
		}
		logger.Info().Msg("dev mode: template reload active")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("weftd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server exited")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown incomplete")
		os.Exit(1)
	}
}

// openStateStore selects the state bag backend from config. The close
// func is a no-op for the memory backend.
func openStateStore(cfg config.StateConfig) (state.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := state.OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return state.NewMemoryStore(), func() {}, nil
	}
}
