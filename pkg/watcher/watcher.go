// Package watcher reruns a callback when a file changes.
//
// Editors often save by writing a temporary file and renaming it over the
// original, which drops inotify watches on the file itself. [Watch]
// therefore watches the parent directory and filters events by name.
// Bursts of events are collapsed by a [Debouncer].
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Options configures Watch.
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
}

// Watch calls onChange after every settled change to path until ctx is
// done. It does not call onChange for the initial state.
func Watch(ctx context.Context, path string, onChange func(), opts Options) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	d := NewDebouncer(opts.Debounce, onChange)
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, abs) {
				continue
			}
			logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			d.Trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// relevant reports whether ev may have changed the contents of target.
func relevant(ev fsnotify.Event, target string) bool {
	if filepath.Clean(ev.Name) != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
