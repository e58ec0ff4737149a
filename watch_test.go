package inkwell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
}

func TestDebouncerStopCancels(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	time.Sleep(80 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Fatalf("calls = %d, want 0", got)
	}
}

func TestWatchIndexFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	fired := make(chan struct{}, 4)

	w, err := WatchIndex(dir, "posts.json", nil, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatalf("WatchIndex failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
		t.Fatal("unrelated file triggered the callback")
	case <-time.After(QuietPeriod + 200*time.Millisecond):
	}

	if err := os.WriteFile(filepath.Join(dir, "posts.json"), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("index write did not trigger the callback")
	}
}

func TestWatchIndexMissingDir(t *testing.T) {
	_, err := WatchIndex(filepath.Join(t.TempDir(), "missing"), "posts.json", nil, func() {})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

func TestWatchIndexLogsErrors(t *testing.T) {
	logger := &recordingLogger{}
	w, err := WatchIndex(t.TempDir(), "posts.json", logger, func() {})
	if err != nil {
		t.Fatalf("WatchIndex failed: %v", err)
	}
	defer w.Close()

	w.fs.Errors <- errors.New("queue overflow")

	deadline := time.Now().Add(2 * time.Second)
	for logger.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher error was not logged")
		}
		time.Sleep(10 * time.Millisecond)
	}
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if got := logger.lines[0]; got != "inkwell: watcher error: queue overflow" {
		t.Errorf("logged %q", got)
	}
}
