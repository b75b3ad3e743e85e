package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mj1618/wmpolicy/internal/logger"
	"github.com/mj1618/wmpolicy/internal/model"
)

// Watcher reloads the configuration file when it changes. Each reload builds
// and validates a complete new policy before handing it to apply; a file that
// fails to load or validate is logged and the live policy is left alone.
type Watcher struct {
	path  string
	log   *logger.Logger
	apply func(*model.FocusPolicy) error
	fsw   *fsnotify.Watcher

	// debounce is the quiet period after the last event before a reload.
	debounce time.Duration
	// reloadMu serializes reloads fired from debounce timers.
	reloadMu sync.Mutex

	// rejected is called with the error for every rejected reload. Used by tests.
	rejected func(error)
}

// NewWatcher watches path. The containing directory is watched so editors
// that replace the file by renaming a temporary over it are picked up.
func NewWatcher(path string, log *logger.Logger, apply func(*model.FocusPolicy) error) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, log: log, apply: apply, fsw: fsw, debounce: DefaultDebounce}, nil
}

// Run processes file events until ctx is done. Bursts of events are
// coalesced into one reload.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	w.log.Info("Watching configuration", "path", w.path)

	d := newDebouncer(w.debounce, w.reload)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				w.log.Warn("Configuration file removed, keeping current policy", "path", w.path)
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("Configuration changed", "path", w.path, "op", ev.Op.String())
			d.trigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("File watcher error", err, "path", w.path)
		}
	}
}

func (w *Watcher) reload() {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	f, err := Load(w.path)
	if err == nil {
		var p *model.FocusPolicy
		if p, err = f.Policy(); err == nil {
			if err = w.apply(p); err == nil {
				w.log.Info("Configuration reloaded", "path", w.path)
				return
			}
		}
	}
	w.log.Error("Rejected configuration change, keeping current policy", err, "path", w.path)
	if w.rejected != nil {
		w.rejected(err)
	}
}
