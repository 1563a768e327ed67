package agent

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the agent config whenever the file changes, so edited
// instructions apply to the next session without a restart.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchConfig watches path and calls onChange with the re-read config
// after every write. The parent directory is watched, not the file, so
// editors that replace the file on save still trigger a reload.
func WatchConfig(path string, onChange func(Config)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(absolute)); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &Watcher{watcher: watcher, done: make(chan struct{})}
	go w.run(absolute, onChange)
	return w, nil
}

func (w *Watcher) run(path string, onChange func(Config)) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfig(path)
			if err != nil {
				log.Warn("agent config reload failed", "error", err)
				continue
			}
			log.Debug("agent config reloaded", "model", cfg.Model)
			onChange(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("agent config watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
