package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/partite-ai/idlbind/internal/logger"
)

// watch generates every file once and then again whenever it changes.
// Directories are watched rather than files so editors that replace files
// on save keep triggering events.
func (c *compiler) watch(ctx context.Context, files []string, debounce time.Duration) error {
	if err := c.generateAll(ctx, files); err != nil {
		logger.Error("Initial generation failed", "error", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		watched[abs] = file
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}
	logger.Info("Watching for changes", "files", len(files), "debounce", debounce)

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			file, ok := watched[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			logger.Debug("Input changed", "file", file, "op", ev.Op.String())
			pending[file] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "error", err)
		case <-timer.C:
			batch := make([]string, 0, len(pending))
			for file := range pending {
				batch = append(batch, file)
			}
			clear(pending)
			if err := c.generateAll(ctx, batch); err != nil {
				logger.Error("Regeneration failed", "error", err)
			}
		}
	}
}
