// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"zonemap/pkg/log"

	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange whenever path is written, created or renamed.
// The parent directory is watched so editors that replace the file are seen.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func()) error {
	logger := log.NewScopedLogger("[config/watch]", "")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	absSource, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absSource)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add watch on dir %s: %w", dir, err)
	}
	logger.Verbose("Watching '%s' for changes", absSource)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			absEvent, _ := filepath.Abs(event.Name)
			if absEvent != absSource || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Trace("fsnotify event: Name='%s', Op=%v", event.Name, event.Op)
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("File watch error: %v", err)
		}
	}
}

// WatchStore reloads store whenever its file changes
func WatchStore(ctx context.Context, store *Store) error {
	path := store.Get().Path
	return Watch(ctx, path, func() {
		if err := store.Reload(); err != nil {
			log.Warn("[config] Reload of %s failed, keeping previous accounts: %v", path, err)
			return
		}
		log.Info("[config] Reloaded %d account(s) from %s", len(store.Get().Accounts), path)
	})
}
