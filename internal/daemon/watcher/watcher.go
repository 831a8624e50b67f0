// Package watcher handles file system watching for the daemon.
package watcher

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/popsearch/popsearch/internal/config"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventCatalogChanged EventType = iota
	EventSettingsChanged
)

func (t EventType) String() string {
	switch t {
	case EventCatalogChanged:
		return "catalog"
	case EventSettingsChanged:
		return "settings"
	}
	return "unknown"
}

// DebounceInterval is how long a file must stay quiet before its event
// is emitted.
const DebounceInterval = 100 * time.Millisecond

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the configuration directory for edits made outside
// the daemon, such as `popsearch dest add` or a text editor.
type Watcher struct {
	dir        string
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a watcher for the configuration directory dir.
func New(dir string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:        dir,
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
	}

	return w, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start starts the watcher.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}
	log.Printf("[watcher] Watching %s", w.dir)

	go w.processEvents()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Config writes land as a temp file renamed over the target.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	eventType, ok := classify(event.Name)
	if !ok {
		return
	}

	w.debounceEvent(event.Name, func() {
		log.Printf("[watcher] %s changed: %s", eventType, event.Name)
		select {
		case w.eventsChan <- Event{Type: eventType, Path: event.Name}:
		case <-w.done:
		}
	})
}

func classify(path string) (EventType, bool) {
	switch filepath.Base(path) {
	case config.CatalogFileName:
		return EventCatalogChanged, true
	case config.SettingsFileName:
		return EventSettingsChanged, true
	}
	return 0, false
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	w.debounce[path] = time.AfterFunc(DebounceInterval, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}
