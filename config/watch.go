package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"gopkg.in/inconshreveable/log15.v2"
)

const (
	// watchDebounce coalesces the burst of events editors produce for a
	// single save.
	watchDebounce = 200 * time.Millisecond

	errMsgWatcherCreate = "config: failed to create file watcher"
	errMsgWatcherAdd    = "config: failed to watch config directory"
)

// Watch follows the configuration file at path and calls onChange with
// each valid reload until ctx is done. Saves that fail to parse or
// validate are logged and skipped.
func Watch(ctx context.Context, path string, logger log15.Logger, onChange func(*Config)) error {
	if logger == nil {
		logger = log15.New("pkg", "config")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errMsgWatcherCreate)
	}
	defer watcher.Close()

	// Watch the directory, editors replace the file on save.
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, errMsgWatcherAdd)
	}

	path = filepath.Clean(path)
	var debounce <-chan time.Time

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				break
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				break
			}
			debounce = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher error", "err", err)

		case <-debounce:
			debounce = nil

			conf, err := FromFile(path)
			if err != nil {
				logger.Error("could not reload configuration", "err", err)
				break
			}
			if errs := conf.Validate(); errs != nil {
				for _, err := range errs {
					logger.Error("rejecting reloaded configuration", "err", err)
				}
				break
			}

			logger.Info("configuration reloaded", "path", path)
			onChange(conf)

		case <-ctx.Done():
			return nil
		}
	}
}
