package configwatcher

import (
	"campus_backend/internal/config"
	"campus_backend/pkg/logger"
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type ConfigReloader func(cfg *config.Config)

// Watcher reloads the config file after writes settle and hands the new config to every reloader.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Load     func(dir string) (*config.Config, error)

	reloaders []ConfigReloader
}

func New(configPath string, reloaders ...ConfigReloader) *Watcher {
	return &Watcher{
		Path:      configPath,
		Debounce:  time.Second,
		Load:      config.LoadConfig,
		reloaders: reloaders,
	}
}

func (w *Watcher) OnReload(fn ConfigReloader) {
	w.reloaders = append(w.reloaders, fn)
}

// Run blocks until ctx is cancelled or the underlying watcher fails to start.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}
	// 监听目录，编辑器保存时可能替换文件
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(w.Debounce)
			}
		case <-timer.C:
			newCfg, err := w.Load(filepath.Dir(absPath))
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("path", absPath))
			for _, fn := range w.reloaders {
				fn(newCfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
