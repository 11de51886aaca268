package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// watch calls regenerate whenever a Go source file in dir changes, until
// ctx is done. Changes to the output file and to tests are ignored.
func watch(ctx context.Context, dir, output string, log zerolog.Logger, regenerate func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	log.Info().Str("dir", dir).Msg("watching for changes")

	skip := filepath.Base(output)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == skip {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			log.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("source changed")
			if err := regenerate(); err != nil {
				log.Error().Err(err).Msg("regeneration failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("file watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}
