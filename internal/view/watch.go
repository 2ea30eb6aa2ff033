package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch reparses templates when their files change. Dev-mode only; the
// watcher stops when ctx is canceled.
func (r *Registry) Watch(ctx context.Context, log zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("view: start watcher: %w", err)
	}

	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("view: watch %s: %w", r.dir, err)
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("view: scan %s: %w", r.dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(r.dir, entry.Name())
		if err := watcher.Add(sub); err != nil {
			watcher.Close()
			return fmt.Errorf("view: watch %s: %w", sub, err)
		}
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) {
					log.Debug().Str("path", event.Name).Msg("template changed")
					r.invalidate(event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("template watcher error")
			}
		}
	}()
	return nil
}
