package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads configuration when the backing file changes. Callers
// subscribe with OnChange; reload failures keep the previous config.
type Watcher struct {
	path string

	mu       sync.RWMutex
	current  *Config
	onChange []func(*Config)

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher loads the config at path and begins watching it for changes.
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    path,
		current: cfg,
		done:    make(chan struct{}),
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Continue without watching; callers still get the loaded config.
		return w, nil
	}
	w.watcher = fsWatcher

	// Watch the directory, not the file: editors replace files on save
	// and a watch on the old inode would go silent.
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		w.watcher = nil
		return w, nil
	}

	go w.watchLoop()

	return w, nil
}

// watchLoop monitors the config file for writes and reloads on change.
func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&fsnotify.Write != 0 || event.Op&fsnotify.Create != 0 {
				w.reload()
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching
		}
	}
}

// reload re-reads the config file and notifies subscribers.
func (w *Watcher) reload() {
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		return
	}

	w.mu.Lock()
	w.current = cfg
	callbacks := make([]func(*Config), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

// Current returns the most recently loaded config.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after each successful reload.
func (w *Watcher) OnChange(cb func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, cb)
}

// Close stops watching the config file.
func (w *Watcher) Close() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
}
