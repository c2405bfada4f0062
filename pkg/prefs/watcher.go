package prefs

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher watches the prefs directory and reports which key another
// process rewrote. Sharing the prefs files between processes is
// last-writer-wins; the watcher narrows the window where a running
// dashboard shows settings another process has already replaced.
type Watcher struct {
	watcher    *fsnotify.Watcher
	logger     *logrus.Entry
	onChange   func(key string)
	debounce   time.Duration
	mu         sync.Mutex
	lastChange map[string]time.Time
}

// NewWatcher creates a Watcher over the storage directory. onChange is
// called with the storage key (e.g. "theme") whose file changed.
func NewWatcher(storage *Storage, logger *logrus.Entry, onChange func(key string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(storage.Dir()); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		watcher:    fw,
		logger:     logger,
		onChange:   onChange,
		debounce:   100 * time.Millisecond,
		lastChange: make(map[string]time.Time),
	}, nil
}

// Start begins watching. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			w.handleChange(strings.TrimSuffix(name, ".json"))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Prefs watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

// handleChange debounces rapid writes per key (the atomic-rename write
// pattern produces several events for one save).
func (w *Watcher) handleChange(key string) {
	w.mu.Lock()
	last := w.lastChange[key]
	now := time.Now()
	if now.Sub(last) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.lastChange[key] = now
	w.mu.Unlock()

	w.logger.Debugf("Prefs changed externally: %s", key)
	if w.onChange != nil {
		w.onChange(key)
	}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
