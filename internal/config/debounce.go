package config

import (
	"sync"
	"time"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading. An editor save is usually a truncate, a write and
// sometimes a create in quick succession.
const DefaultDebounce = 250 * time.Millisecond

// debouncer coalesces rapid events into a single callback invocation.
type debouncer struct {
	window   time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

func newDebouncer(window time.Duration, callback func()) *debouncer {
	return &debouncer{window: window, callback: callback}
}

// trigger resets the timer. The callback fires once the window elapses with
// no further triggers.
func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.callback)
}

// stop cancels any pending callback.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
