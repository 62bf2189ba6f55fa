package content

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the catalog file until ctx is cancelled and logs a
// warning when it changes on disk. The in-memory store is never rebuilt
// at runtime; the warning tells the operator a restart is needed.
func Watch(ctx context.Context, catalogPath string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: editors replace files on save,
	// which drops a direct file watch.
	dir := filepath.Dir(catalogPath)
	if err := w.Add(dir); err != nil {
		return err
	}
	abs, _ := filepath.Abs(catalogPath)

	logger.Info("content watcher: started", slog.String("catalog", catalogPath))

	// Debounce bursts of write events from a single save.
	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("content watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Warn("content watcher: catalog changed on disk; restart to rebuild the suggestion index",
				slog.String("catalog", catalogPath))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			evAbs, _ := filepath.Abs(ev.Name)
			if evAbs != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(200 * time.Millisecond)
				debounceCh = debounce.C
			} else {
				debounce.Reset(200 * time.Millisecond)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content watcher: error", slog.String("error", err.Error()))
		}
	}
}
