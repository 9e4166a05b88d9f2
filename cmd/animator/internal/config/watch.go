package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/go-drift/animator/pkg/log"
)

var logger = log.New("config")

// Watch calls onChange whenever animator.yaml or animator.toml in dir is
// written, created or replaced. It blocks until ctx is done and returns nil
// then. onChange runs on the watching goroutine.
func Watch(ctx context.Context, dir string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files by renaming, so the directory is watched.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debugf("config changed: %s (%s)", event.Name, event.Op)
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("config watcher error: %v", err)
		}
	}
}

func isConfigFile(path string) bool {
	switch filepath.Base(path) {
	case YAMLFile, TOMLFile:
		return true
	}
	return false
}
