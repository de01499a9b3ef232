package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"cinescore/internal/utils"
)

// Watch reloads path whenever it changes and hands each valid config to
// onChange. It blocks until ctx is done. Invalid files are logged and skipped
// so a half-written edit never replaces a working config.
func Watch(ctx context.Context, path string, logger *utils.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	// Coalesce bursts of events from a single save.
	const settle = 200 * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error:", err)
		case <-pending:
			pending = nil
			cfg, err := Load(path)
			if err != nil {
				logger.Error("Failed to reload config:", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				logger.Error("Ignoring invalid config change:", err)
				continue
			}
			logger.Info("Config reloaded from", path)
			onChange(cfg)
		}
	}
}
