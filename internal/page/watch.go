package page

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc receives a freshly parsed document after the watched file changes
type ChangeFunc func(ctx context.Context, doc *Document) error

// Watch re-parses path whenever it is written and hands the document to fn.
// The containing directory is watched so editors that replace the file are
// seen too. Watch blocks until ctx is done.
func Watch(ctx context.Context, path, pageURL string, logger *slog.Logger, fn ChangeFunc) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "watch")

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching page", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			doc, err := ParseFile(abs, pageURL, logger)
			if err != nil {
				logger.Warn("failed to reload page", "path", abs, "error", err)
				continue
			}
			if err := fn(ctx, doc); err != nil {
				logger.Warn("page change handler failed", "path", abs, "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
