package inkwell

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// QuietPeriod is how long a burst of changes must settle before it is acted
// on. The search box in app.js waits the same interval after the last
// keystroke.
const QuietPeriod = 300 * time.Millisecond

// Debouncer runs fn once after Trigger has not been called for the wait
// period. Each Trigger cancels the pending run and schedules a new one.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	wait  time.Duration
	fn    func()
}

// NewDebouncer creates a Debouncer that calls fn after wait of quiet.
func NewDebouncer(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger schedules fn, replacing any pending run.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Stop cancels a pending run.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Logger receives watcher errors. echo.Logger satisfies it.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Watcher calls onChange after the index file in a content directory is
// written, created, renamed, or removed, debounced by QuietPeriod.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce *Debouncer
	name     string
	logger   Logger
	done     chan struct{}
	once     sync.Once
}

// WatchIndex watches dir for changes to the file called name. The directory
// is watched rather than the file so atomic rename-over writes are seen.
func WatchIndex(dir, name string, logger Logger, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		fs:       fw,
		debounce: NewDebouncer(QuietPeriod, onChange),
		name:     filepath.Clean(name),
		logger:   logger,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.debounce.Trigger()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warnf("inkwell: watcher error: %v", err)
			}
		}
	}
}

// Close stops watching and cancels any pending callback.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.fs.Close()
		<-w.done
		w.debounce.Stop()
	})
	return err
}
