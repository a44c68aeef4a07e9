package reload

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startWatch(t *testing.T, path string, apply func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, path, testLogger(), apply)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
}

func TestWatch_AppliesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	startWatch(t, path, func() error {
		calls.Add(1)
		return nil
	})

	// A burst of writes is debounced into few applies.
	for i := 0; i < 5; i++ {
		_ = os.WriteFile(path, []byte("a: 2\n"), 0o644)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "config change not applied")

	time.Sleep(2 * debounce)
	if n := calls.Load(); n > 2 {
		t.Errorf("apply called %d times for one burst", n)
	}
}

func TestWatch_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	_ = os.WriteFile(path, []byte("a: 1\n"), 0o644)

	var calls atomic.Int32
	startWatch(t, path, func() error {
		calls.Add(1)
		return nil
	})

	_ = os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b: 1\n"), 0o644)
	time.Sleep(3 * debounce)
	if n := calls.Load(); n != 0 {
		t.Errorf("apply called %d times for an unrelated file", n)
	}
}

func TestWatch_ApplyErrorKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	_ = os.WriteFile(path, []byte("a: 1\n"), 0o644)

	var calls atomic.Int32
	startWatch(t, path, func() error {
		if calls.Add(1) == 1 {
			return errors.New("invalid config")
		}
		return nil
	})

	_ = os.WriteFile(path, []byte("broken"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "first change not seen")

	time.Sleep(2 * debounce)
	_ = os.WriteFile(path, []byte("a: 3\n"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return calls.Load() >= 2
	}, "watcher stopped after a failed apply")
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "config.yaml"), testLogger(), func() error { return nil })
	if err == nil {
		t.Error("expected an error for a missing directory")
	}
}
