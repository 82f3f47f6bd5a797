package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

const invalidatingOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch watches the theme directories until ctx is cancelled. Changed theme
// files are dropped from the cache. Created, removed and renamed files, and
// writes to files missing from the catalog, also trigger a catalog refresh.
// onChange, if non-nil, is called with the path of every handled change after
// the registry has been updated.
func (r *Registry) Watch(ctx context.Context, onChange func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create theme watcher: %w", err)
	}
	defer w.Close()

	watched := 0
	for _, dir := range r.dirs {
		if _, err := r.fs.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch theme directory %q: %w", dir, err)
		}
		watched++
	}
	r.watchLog.Info().Int("dirs", watched).Msg("watching theme directories")

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !r.handleEvent(ev) {
				continue
			}
			if onChange != nil {
				onChange(ev.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.watchLog.Warn().Err(err).Msg("theme watcher error")
		}
	}
}

// handleEvent updates the registry for ev and reports whether ev concerned a
// theme file.
func (r *Registry) handleEvent(ev fsnotify.Event) bool {
	if ev.Op&invalidatingOps == 0 {
		return false
	}
	if _, err := FormatFromPath(ev.Name); err != nil {
		return false
	}

	r.Invalidate(ev.Name)
	r.watchLog.Debug().Str("path", filepath.Clean(ev.Name)).Str("op", ev.Op.String()).Msg("theme file changed")

	refresh := ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
	if !refresh {
		// A write to a file the catalog has not seen yet, e.g. when the
		// create happened before the watch started.
		_, known := r.Catalog().Get(keyFor(ev.Name))
		refresh = !known
	}
	if refresh {
		if err := r.Refresh(); err != nil {
			r.watchLog.Warn().Err(err).Msg("theme catalog refresh failed")
		}
	}
	return true
}
