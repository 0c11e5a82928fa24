package configwatcher

import (
	"campus_backend/internal/config"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsAfterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))

	reloaded := make(chan *config.Config, 4)
	w := New(path, func(cfg *config.Config) { reloaded <- cfg })
	w.Debounce = 50 * time.Millisecond
	w.Load = func(string) (*config.Config, error) {
		return &config.Config{Log: config.LogConfig{Level: "debug"}}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// fsnotify needs the watch registered before the write lands
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
		select {
		case cfg := <-reloaded:
			require.Equal(t, "debug", cfg.Log.Level)
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
		case <-deadline:
			t.Fatal("config was not reloaded")
		}
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	calls := make(chan struct{}, 1)
	w := New(path, func(*config.Config) { calls <- struct{}{} })
	w.Debounce = 20 * time.Millisecond
	w.Load = func(string) (*config.Config, error) { return &config.Config{}, nil }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0o644))

	select {
	case <-calls:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(300 * time.Millisecond):
	}
}
